package catalog

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/menta2k/pet-triage/pkg/types"
)

func TestBuiltinCatalogsValid(t *testing.T) {
	catalogs := Builtin()

	if len(catalogs) != len(types.BodyParts()) {
		t.Fatalf("Expected %d catalogs, got %d", len(types.BodyParts()), len(catalogs))
	}
	for part, cat := range catalogs {
		if err := cat.Validate(); err != nil {
			t.Errorf("%s: built-in catalog invalid: %v", part, err)
		}
		if cat.BodyPart != part {
			t.Errorf("Catalog under key %s declares body part %s", part, cat.BodyPart)
		}
	}
}

func TestBuiltinHealthyPrototype(t *testing.T) {
	for part, cat := range Builtin() {
		healthy := cat.Healthy()
		if healthy == nil {
			t.Errorf("%s: no healthy prototype", part)
			continue
		}
		if healthy.Urgency != types.UrgencyRoutine {
			t.Errorf("%s: healthy prototype has urgency %s, want routine", part, healthy.Urgency)
		}
	}
}

func TestPlaceholderVectorDeterministic(t *testing.T) {
	a := PlaceholderVector("Hot spot", DefaultEmbeddingDim)
	b := PlaceholderVector("Hot spot", DefaultEmbeddingDim)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Same name produced different vectors:\n%s", diff)
	}

	c := PlaceholderVector("Pyoderma", DefaultEmbeddingDim)
	if cmp.Equal(a, c) {
		t.Error("Different names produced identical vectors")
	}
}

func TestPlaceholderVectorUnitNorm(t *testing.T) {
	vec := PlaceholderVector("Ringworm", DefaultEmbeddingDim)

	if len(vec) != DefaultEmbeddingDim {
		t.Fatalf("Expected %d dims, got %d", DefaultEmbeddingDim, len(vec))
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("Expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestForBreedEscalation(t *testing.T) {
	cat := Skin()

	var target *Prototype
	for i := range cat.Prototypes {
		if len(cat.Prototypes[i].RiskBreeds) > 0 {
			target = &cat.Prototypes[i]
			break
		}
	}
	if target == nil {
		t.Fatal("Skin catalog has no prototype with risk breeds")
	}

	adjusted := cat.ForBreed(target.RiskBreeds[0])

	for i := range adjusted.Prototypes {
		original := cat.Prototypes[i]
		got := adjusted.Prototypes[i].Urgency
		if matchesBreed(original.RiskBreeds, target.RiskBreeds[0]) {
			if got != original.Urgency.Escalate() {
				t.Errorf("%s: expected escalation to %s, got %s",
					original.Name, original.Urgency.Escalate(), got)
			}
		} else if got != original.Urgency {
			t.Errorf("%s: urgency changed without a breed match", original.Name)
		}
	}

	// The original catalog must be untouched.
	if cat.Prototypes[0].Urgency != Skin().Prototypes[0].Urgency {
		t.Error("ForBreed mutated the original catalog")
	}
}

func TestForBreedCaseInsensitive(t *testing.T) {
	cat := &Catalog{
		BodyPart:        types.BodyPartSkin,
		HealthyCategory: "healthy",
		EmbeddingDim:    2,
		Prototypes: []Prototype{
			{Name: "A", Category: "x", Urgency: types.UrgencySoon, Features: []float64{1, 0}, RiskBreeds: []string{"Shar Pei"}},
			{Name: "H", Category: "healthy", Urgency: types.UrgencyRoutine, Features: []float64{0, 1}},
		},
	}

	if cat.ForBreed("SHAR PEI").Prototypes[0].Urgency != types.UrgencyUrgent {
		t.Error("Expected case-insensitive breed match to escalate")
	}
	if cat.ForBreed("Shar").Prototypes[0].Urgency != types.UrgencySoon {
		t.Error("Partial breed name must not match")
	}
	if cat.ForBreed("").Prototypes[0].Urgency != types.UrgencySoon {
		t.Error("Empty breed must leave catalog unchanged")
	}
}

func TestEscalateSaturates(t *testing.T) {
	if got := types.UrgencyEmergency.Escalate(); got != types.UrgencyEmergency {
		t.Errorf("Expected emergency to saturate, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Catalog {
		return &Catalog{
			BodyPart:        types.BodyPartEar,
			HealthyCategory: "healthy",
			EmbeddingDim:    2,
			Prototypes: []Prototype{
				{Name: "A", Category: "x", Urgency: types.UrgencySoon, Features: []float64{1, 0}},
				{Name: "H", Category: "healthy", Urgency: types.UrgencyRoutine, Features: []float64{0, 1}},
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Valid catalog rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"unknown body part", func(c *Catalog) { c.BodyPart = "tail" }},
		{"empty healthy category", func(c *Catalog) { c.HealthyCategory = "" }},
		{"no prototypes", func(c *Catalog) { c.Prototypes = nil }},
		{"dim mismatch", func(c *Catalog) { c.Prototypes[0].Features = []float64{1} }},
		{"unknown urgency", func(c *Catalog) { c.Prototypes[0].Urgency = "asap" }},
		{"empty name", func(c *Catalog) { c.Prototypes[0].Name = "" }},
		{"no healthy prototype", func(c *Catalog) { c.Prototypes[1].Category = "x" }},
		{"two healthy prototypes", func(c *Catalog) { c.Prototypes[0].Category = "healthy" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skin.json")

	original := Skin()
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if diff := cmp.Diff(original, loaded); diff != "" {
		t.Errorf("Catalog changed through save/load:\n%s", diff)
	}
}

func TestLoadFileFillsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ear.json")

	// Metadata-only catalog: no feature vectors on disk.
	bare := &Catalog{
		BodyPart:        types.BodyPartEar,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{Name: "Ear mites", Category: "parasitic", Urgency: types.UrgencySoon},
			{Name: "Healthy ear", Category: "healthy", Urgency: types.UrgencyRoutine},
		},
	}
	bare.EmbeddingDim = DefaultEmbeddingDim
	if err := bare.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	for _, p := range loaded.Prototypes {
		if len(p.Features) != DefaultEmbeddingDim {
			t.Errorf("%s: expected placeholder vector of %d dims, got %d",
				p.Name, DefaultEmbeddingDim, len(p.Features))
		}
	}
	if diff := cmp.Diff(loaded.Prototypes[0].Features, PlaceholderVector("Ear mites", DefaultEmbeddingDim)); diff != "" {
		t.Errorf("Placeholder vector not deterministic across load:\n%s", diff)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	custom := Skin()
	custom.Prototypes = custom.Prototypes[:0]
	custom.Prototypes = append(custom.Prototypes,
		Prototype{Name: "Custom condition", Category: "bacterial", Urgency: types.UrgencySoon, Features: PlaceholderVector("Custom condition", DefaultEmbeddingDim)},
		Prototype{Name: "Healthy skin", Category: "healthy", Urgency: types.UrgencyRoutine, Features: PlaceholderVector("Healthy skin", DefaultEmbeddingDim)},
	)
	if err := custom.Save(filepath.Join(dir, "skin.json")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	catalogs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	if len(catalogs[types.BodyPartSkin].Prototypes) != 2 {
		t.Errorf("Expected custom skin catalog, got %d prototypes",
			len(catalogs[types.BodyPartSkin].Prototypes))
	}
	// Parts without files fall back to built-ins.
	if len(catalogs[types.BodyPartEye].Prototypes) != len(Eye().Prototypes) {
		t.Error("Expected built-in eye catalog as fallback")
	}
}

func TestLoadDirRejectsMismatchedPart(t *testing.T) {
	dir := t.TempDir()

	ear := Ear()
	// Saved under the wrong filename for its declared body part.
	if err := ear.Save(filepath.Join(dir, "skin.json")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := LoadDir(dir); err == nil {
		t.Error("Expected error for catalog declaring a different body part")
	}
}
