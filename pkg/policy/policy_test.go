package policy

import (
	"strings"
	"testing"

	"github.com/menta2k/pet-triage/pkg/types"
)

func condition(name, category string, probability float64, severity types.Severity, urgency types.UrgencyTier) types.ClassifiedCondition {
	return types.ClassifiedCondition{
		Name:        name,
		Category:    category,
		Probability: probability,
		Severity:    severity,
		Urgency:     urgency,
	}
}

func TestRecommendationsHealthy(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Healthy skin", "healthy", 0.8, types.SeveritySevere, types.UrgencyRoutine),
	}
	recs := p.Recommendations(conditions, types.VisualFeatures{}, "")

	if len(recs) != 1 {
		t.Fatalf("Expected exactly one reassurance message, got %d", len(recs))
	}
	want := "No skin concerns detected. Continue regular grooming and monitoring."
	if recs[0] != want {
		t.Errorf("Expected %q, got %q", want, recs[0])
	}
}

func TestRecommendationsEmptyConditions(t *testing.T) {
	for _, part := range types.BodyParts() {
		p := For(part, "healthy")
		recs := p.Recommendations(nil, types.VisualFeatures{}, "")
		if len(recs) != 1 {
			t.Errorf("%s: expected one reassurance message for empty conditions, got %d", part, len(recs))
		}
		if recs[0] == "" {
			t.Errorf("%s: reassurance message is empty", part)
		}
	}
}

func TestRecommendationsCategoryChecklist(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Ringworm", "fungal", 0.5, types.SeverityModerate, types.UrgencySoon),
	}
	recs := p.Recommendations(conditions, types.VisualFeatures{}, "")

	if len(recs) != 3 {
		t.Fatalf("Expected the 3-step fungal checklist, got %d recommendations", len(recs))
	}
	if !strings.Contains(recs[0], "fungal infections spread to people") {
		t.Errorf("Expected the fungal contagion warning first, got %q", recs[0])
	}
}

func TestRecommendationsGenericFallback(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Odd lump", "neoplastic", 0.5, types.SeverityModerate, types.UrgencySoon),
	}
	recs := p.Recommendations(conditions, types.VisualFeatures{}, "")

	if len(recs) != len(genericInstructions) {
		t.Fatalf("Expected generic instructions for unknown category, got %d recommendations", len(recs))
	}
	if recs[0] != genericInstructions[0] {
		t.Errorf("Expected generic instruction, got %q", recs[0])
	}
}

func TestRecommendationsBreedNote(t *testing.T) {
	p := For(types.BodyPartEar, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Yeast otitis", "fungal", 0.5, types.SeverityModerate, types.UrgencySoon),
	}

	recs := p.Recommendations(conditions, types.VisualFeatures{}, "Cocker Spaniel")
	found := false
	for _, rec := range recs {
		if strings.Contains(rec, "Floppy-eared") {
			found = true
		}
	}
	if !found {
		t.Error("Expected a breed note for Cocker Spaniel ears")
	}

	recs = p.Recommendations(conditions, types.VisualFeatures{}, "Greyhound")
	for _, rec := range recs {
		if strings.Contains(rec, "Floppy-eared") {
			t.Error("Unexpected breed note for Greyhound")
		}
	}
}

func TestRecommendationsInflammationModifier(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")
	conditions := []types.ClassifiedCondition{
		condition("Hot spot", "bacterial", 0.5, types.SeverityModerate, types.UrgencySoon),
	}

	recs := p.Recommendations(conditions, types.VisualFeatures{Inflammation: 0.6}, "")
	found := false
	for _, rec := range recs {
		if strings.Contains(rec, "compress") {
			found = true
		}
	}
	if !found {
		t.Error("Expected compress note for inflammation above 0.5")
	}

	// At the threshold exactly, the note must not fire.
	recs = p.Recommendations(conditions, types.VisualFeatures{Inflammation: 0.5}, "")
	for _, rec := range recs {
		if strings.Contains(rec, "compress") {
			t.Error("Compress note must not fire at inflammation 0.5")
		}
	}
}

func TestRecommendationsHairLossModifier(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")
	conditions := []types.ClassifiedCondition{
		condition("Flea allergy dermatitis", "allergic", 0.5, types.SeverityModerate, types.UrgencySoon),
	}

	recs := p.Recommendations(conditions, types.VisualFeatures{HairLoss: 0.7}, "")
	found := false
	for _, rec := range recs {
		if strings.Contains(rec, "Photograph") {
			found = true
		}
	}
	if !found {
		t.Error("Expected photograph note for hair loss above 0.6")
	}
}

func TestRecommendationsUrgencyNote(t *testing.T) {
	p := For(types.BodyPartPaw, "healthy")

	for _, urgency := range []types.UrgencyTier{types.UrgencyUrgent, types.UrgencyEmergency} {
		conditions := []types.ClassifiedCondition{
			condition("Pad laceration", "injury", 0.6, types.SeverityModerate, urgency),
		}
		recs := p.Recommendations(conditions, types.VisualFeatures{}, "")
		last := recs[len(recs)-1]
		if !strings.Contains(last, "immediate veterinary attention") {
			t.Errorf("%s: expected urgency note last, got %q", urgency, last)
		}
	}

	conditions := []types.ClassifiedCondition{
		condition("Allergic pododermatitis", "allergic", 0.6, types.SeverityModerate, types.UrgencySoon),
	}
	recs := p.Recommendations(conditions, types.VisualFeatures{}, "")
	for _, rec := range recs {
		if strings.Contains(rec, "immediate veterinary attention") {
			t.Error("Urgency note must not fire for soon-tier conditions")
		}
	}
}

func TestConsultationUrgentHighProbability(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Sarcoptic mange", "parasitic", 0.75, types.SeveritySevere, types.UrgencyUrgent),
	}
	if !p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("Expected consultation for high-probability urgent condition")
	}

	// Same condition but routine urgency does not fire this clause.
	conditions = []types.ClassifiedCondition{
		condition("Dull coat", "coat", 0.75, types.SeveritySevere, types.UrgencyRoutine),
	}
	if p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("Routine urgency alone must not trigger consultation")
	}
}

func TestConsultationConfidentModerate(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Atopic dermatitis", "allergic", 0.65, types.SeverityModerate, types.UrgencySoon),
	}
	if !p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("Expected consultation for confident moderate finding")
	}

	conditions[0].Probability = 0.55
	if p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("Moderate finding at 0.55 must not trigger consultation")
	}
}

func TestConsultationVisualTriggers(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	if !p.NeedsVeterinaryConsultation(nil, types.VisualFeatures{Inflammation: 0.75}) {
		t.Error("Expected consultation for inflammation above 0.7")
	}
	if !p.NeedsVeterinaryConsultation(nil, types.VisualFeatures{Lesions: 0.85}) {
		t.Error("Expected consultation for lesions above 0.8")
	}
	if p.NeedsVeterinaryConsultation(nil, types.VisualFeatures{Inflammation: 0.7, Lesions: 0.8}) {
		t.Error("Thresholds are exclusive; exact values must not trigger consultation")
	}
}

func TestConsultationMultipleConditions(t *testing.T) {
	p := For(types.BodyPartEar, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Bacterial otitis externa", "bacterial", 0.45, types.SeverityModerate, types.UrgencySoon),
		condition("Yeast otitis", "fungal", 0.42, types.SeverityModerate, types.UrgencySoon),
	}
	if !p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("Expected consultation for two conditions above 0.4")
	}

	conditions[1].Probability = 0.3
	if p.NeedsVeterinaryConsultation(conditions, types.VisualFeatures{}) {
		t.Error("One plausible condition alone must not trigger the multi-condition clause")
	}
}

func TestConsultationAllQuiet(t *testing.T) {
	p := For(types.BodyPartSkin, "healthy")

	conditions := []types.ClassifiedCondition{
		condition("Healthy skin", "healthy", 0.6, types.SeverityModerate, types.UrgencyRoutine),
	}
	vf := types.VisualFeatures{Redness: 0.3, Inflammation: 0.2, HairLoss: 0.1}
	if p.NeedsVeterinaryConsultation(conditions, vf) {
		t.Error("Quiet report must not trigger consultation")
	}
}

func TestCareInstructionsBounded(t *testing.T) {
	for part, categories := range careInstructions {
		for category, checklist := range categories {
			if len(checklist) < 2 || len(checklist) > 3 {
				t.Errorf("%s/%s: checklist has %d steps, want 2-3", part, category, len(checklist))
			}
		}
	}
}
