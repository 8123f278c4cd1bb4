// Package catalog holds the prototype reference data used by the zero-shot
// classifier: per body part, a fixed list of named conditions with a
// category, an urgency tier and a reference feature vector.
//
// The built-in catalogs ship with placeholder reference vectors synthesized
// deterministically from each prototype name. Catalogs round-trip through
// JSON so real vectors computed from reference images can be substituted
// without code changes.
package catalog

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/pet-triage/pkg/types"
)

// DefaultEmbeddingDim is the embedding dimensionality shared across the
// system. Every prototype vector and every extracted global vector must
// have exactly this many dimensions.
const DefaultEmbeddingDim = 256

// Prototype is one known condition: reference vector plus metadata.
// Prototypes are immutable reference data, loaded once and never mutated
// at runtime.
type Prototype struct {
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Urgency     types.UrgencyTier `json:"urgency"`
	Description string            `json:"description"`
	Features    []float64         `json:"features,omitempty"`
	RiskBreeds  []string          `json:"risk_breeds,omitempty"`
}

// Catalog is the full prototype list for one body part.
type Catalog struct {
	BodyPart        types.BodyPart `json:"body_part"`
	HealthyCategory string         `json:"healthy_category"`
	EmbeddingDim    int            `json:"embedding_dim"`
	Prototypes      []Prototype    `json:"prototypes"`
}

// Builtin returns the five built-in catalogs keyed by body part. Each call
// returns fresh copies; callers may hand them to concurrent classifiers
// because nothing mutates them after construction.
func Builtin() map[types.BodyPart]*Catalog {
	return map[types.BodyPart]*Catalog{
		types.BodyPartSkin: Skin(),
		types.BodyPartEar:  Ear(),
		types.BodyPartPaw:  Paw(),
		types.BodyPartEye:  Eye(),
		types.BodyPartBody: Body(),
	}
}

// finalize fills in missing reference vectors with deterministic
// placeholders and the default embedding dim.
func finalize(c *Catalog) *Catalog {
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = DefaultEmbeddingDim
	}
	for i := range c.Prototypes {
		if len(c.Prototypes[i].Features) == 0 {
			c.Prototypes[i].Features = PlaceholderVector(c.Prototypes[i].Name, c.EmbeddingDim)
		}
	}
	return c
}

// PlaceholderVector synthesizes a unit-length reference vector seeded by
// the prototype name, so the built-in catalogs are stable across runs.
// These stand in for vectors computed from real reference images.
func PlaceholderVector(name string, dim int) []float64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, dim)
	var norm float64
	for i := range vec {
		vec[i] = rng.NormFloat64()
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// ForBreed returns a copy of the catalog with every prototype whose risk
// breeds contain the given breed escalated by exactly one urgency tier.
// Matching is case-insensitive exact match; an empty or unmatched breed
// leaves the catalog unchanged. Non-matching prototypes are shared, not
// copied, since they are never mutated.
func (c *Catalog) ForBreed(breed string) *Catalog {
	if breed == "" {
		return c
	}
	adjusted := *c
	adjusted.Prototypes = make([]Prototype, len(c.Prototypes))
	copy(adjusted.Prototypes, c.Prototypes)

	for i := range adjusted.Prototypes {
		if matchesBreed(adjusted.Prototypes[i].RiskBreeds, breed) {
			adjusted.Prototypes[i].Urgency = adjusted.Prototypes[i].Urgency.Escalate()
		}
	}
	return &adjusted
}

func matchesBreed(riskBreeds []string, breed string) bool {
	for _, rb := range riskBreeds {
		if strings.EqualFold(rb, breed) {
			return true
		}
	}
	return false
}

// Healthy returns the catalog's healthy prototype, or nil if none exists.
func (c *Catalog) Healthy() *Prototype {
	for i := range c.Prototypes {
		if c.Prototypes[i].Category == c.HealthyCategory {
			return &c.Prototypes[i]
		}
	}
	return nil
}

// Validate checks structural invariants: known body part, non-empty
// prototype list, consistent vector dimensions, known urgency tiers and
// exactly one healthy prototype.
func (c *Catalog) Validate() error {
	known := false
	for _, p := range types.BodyParts() {
		if c.BodyPart == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown body part %q", c.BodyPart)
	}
	if c.HealthyCategory == "" {
		return fmt.Errorf("%s: healthy_category is empty", c.BodyPart)
	}
	if len(c.Prototypes) == 0 {
		return fmt.Errorf("%s: catalog has no prototypes", c.BodyPart)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("%s: embedding_dim must be positive", c.BodyPart)
	}

	healthy := 0
	for _, p := range c.Prototypes {
		if p.Name == "" {
			return fmt.Errorf("%s: prototype with empty name", c.BodyPart)
		}
		if !p.Urgency.Valid() {
			return fmt.Errorf("%s: prototype %q has unknown urgency %q", c.BodyPart, p.Name, p.Urgency)
		}
		if len(p.Features) != c.EmbeddingDim {
			return fmt.Errorf("%s: prototype %q has %d-dim features, want %d",
				c.BodyPart, p.Name, len(p.Features), c.EmbeddingDim)
		}
		if p.Category == c.HealthyCategory {
			healthy++
		}
	}
	if healthy != 1 {
		return fmt.Errorf("%s: catalog must have exactly one healthy prototype, found %d", c.BodyPart, healthy)
	}
	return nil
}

// LoadFile loads a catalog from a JSON file. Entries without reference
// vectors get deterministic placeholders, so a metadata-only catalog is
// usable immediately.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	finalize(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

// LoadDir loads every "<bodypart>.json" catalog found in dir, falling back
// to the built-in catalog for body parts without a file.
func LoadDir(dir string) (map[types.BodyPart]*Catalog, error) {
	catalogs := Builtin()
	for _, part := range types.BodyParts() {
		path := filepath.Join(dir, string(part)+".json")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if c.BodyPart != part {
			return nil, fmt.Errorf("catalog %s declares body part %q, want %q", path, c.BodyPart, part)
		}
		catalogs[part] = c
	}
	return catalogs, nil
}

// Save writes the catalog as indented JSON, creating the directory if
// needed. This is the persisted artifact shape for substituting real
// reference vectors.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
