// Package classifier implements zero-shot condition classification: the
// extracted global feature vector is compared against every prototype in a
// body-part catalog, similarities become probabilities via softmax, and the
// ranked, filtered conditions drive the rest of the triage pipeline.
//
// One classifier algorithm serves all five body parts; only the injected
// catalog differs.
package classifier

import (
	"math"
	"sort"

	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/types"
)

// Config holds the classifier thresholds.
type Config struct {
	// SevereThreshold and ModerateThreshold map a condition's own
	// probability to a severity, independent of other conditions.
	SevereThreshold   float64
	ModerateThreshold float64
	// MinProbability drops conditions at or below this probability.
	MinProbability float64
	// DetectThreshold is the minimum top-condition probability for a
	// non-healthy result to count as detected.
	DetectThreshold float64
	// MaxConditions caps how many conditions a classification returns.
	MaxConditions int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		SevereThreshold:   0.7,
		ModerateThreshold: 0.4,
		MinProbability:    0.1,
		DetectThreshold:   0.4,
		MaxConditions:     3,
	}
}

// Classifier ranks catalog prototypes against an extracted feature set.
type Classifier struct {
	catalog *catalog.Catalog
	config  Config
}

// New creates a classifier for the given catalog with default thresholds.
func New(cat *catalog.Catalog) *Classifier {
	return NewWithConfig(cat, DefaultConfig())
}

// NewWithConfig creates a classifier with custom thresholds.
func NewWithConfig(cat *catalog.Catalog, config Config) *Classifier {
	return &Classifier{catalog: cat, config: config}
}

// Classify compares the global feature vector against every prototype and
// returns the ranked surviving conditions. An optional breed escalates
// at-risk prototypes by one urgency tier before ranking.
func (c *Classifier) Classify(features types.FeatureSet, breed string) types.Classification {
	cat := c.catalog.ForBreed(breed)

	sims := make([]float64, len(cat.Prototypes))
	for i, proto := range cat.Prototypes {
		sims[i] = CosineSimilarity(proto.Features, features.Global)
	}
	probs := Softmax(sims)

	conditions := make([]types.ClassifiedCondition, len(cat.Prototypes))
	for i, proto := range cat.Prototypes {
		conditions[i] = types.ClassifiedCondition{
			Name:        proto.Name,
			Category:    proto.Category,
			Probability: probs[i],
			Severity:    c.severityFor(probs[i]),
			Urgency:     proto.Urgency,
		}
	}

	// Stable sort keeps catalog order on probability ties.
	sort.SliceStable(conditions, func(i, j int) bool {
		return conditions[i].Probability > conditions[j].Probability
	})

	kept := conditions[:0]
	for _, cond := range conditions {
		if cond.Probability > c.config.MinProbability {
			kept = append(kept, cond)
		}
	}
	if len(kept) > c.config.MaxConditions {
		kept = kept[:c.config.MaxConditions]
	}

	result := types.Classification{Conditions: kept}
	if len(kept) > 0 {
		top := kept[0]
		result.Confidence = top.Probability
		result.Detected = top.Category != cat.HealthyCategory &&
			top.Probability > c.config.DetectThreshold
	}
	return result
}

func (c *Classifier) severityFor(probability float64) types.Severity {
	switch {
	case probability > c.config.SevereThreshold:
		return types.SeveritySevere
	case probability > c.config.ModerateThreshold:
		return types.SeverityModerate
	default:
		return types.SeverityMild
	}
}

// CosineSimilarity returns dot(a,b)/(|a|*|b|). It returns 0 when either
// vector has zero norm or when the dimensions disagree; a mismatch should
// never happen given the shared embedding dim, but it must not crash.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Softmax converts a similarity vector into probabilities. The max is
// subtracted before exponentiating so large-magnitude inputs cannot
// overflow.
func Softmax(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
