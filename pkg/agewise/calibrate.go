package agewise

import (
	"math"
	"strings"

	"github.com/menta2k/pet-triage/pkg/types"
)

// SizeClass is a coarse dog size bracket inferred from the breed name.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

var smallBreedKeywords = []string{
	"chihuahua", "pomeranian", "yorkshire", "maltese", "papillon",
	"shih tzu", "toy", "miniature", "dachshund", "pug", "pekingese",
}

var largeBreedKeywords = []string{
	"labrador", "retriever", "shepherd", "rottweiler", "great dane",
	"mastiff", "bernese", "newfoundland", "saint bernard", "doberman",
	"husky", "malamute", "greyhound",
}

// BreedSizeClass infers the size bracket from breed-name keywords.
// Unmatched or empty breeds default to medium.
func BreedSizeClass(breed string) SizeClass {
	lower := strings.ToLower(breed)
	for _, kw := range smallBreedKeywords {
		if strings.Contains(lower, kw) {
			return SizeSmall
		}
	}
	for _, kw := range largeBreedKeywords {
		if strings.Contains(lower, kw) {
			return SizeLarge
		}
	}
	return SizeMedium
}

const catMaxAgeMonths = 240

// Dog life-expectancy caps by size class; large dogs age faster and live
// shorter lives.
var dogMaxAgeMonths = map[SizeClass]float64{
	SizeSmall:  192, // 16 years
	SizeMedium: 168, // 14 years
	SizeLarge:  144, // 12 years
}

// Size-dependent aging multipliers per raw-month bracket. The first year
// is left unchanged for every size.
var dogBracketMultipliers = map[SizeClass][3]float64{
	//           12-24  24-84  84+
	SizeSmall:  {0.95, 0.90, 0.85},
	SizeMedium: {1.00, 1.00, 1.00},
	SizeLarge:  {1.05, 1.10, 1.20},
}

// CalibrateAgeMonths rescales a model-reported raw age in months into a
// clinically plausible value bounded by species and breed life-expectancy
// caps. It is pure and deterministic given (species, rawMonths, breed).
func CalibrateAgeMonths(species types.Species, rawMonths float64, breed string) float64 {
	if rawMonths <= 0 || math.IsNaN(rawMonths) {
		return 0
	}

	if species == types.SpeciesCat {
		return calibrateCat(rawMonths)
	}
	return calibrateDog(rawMonths, BreedSizeClass(breed))
}

func calibrateCat(raw float64) float64 {
	var m float64
	switch {
	case raw < 12:
		m = raw * 1.1
	case raw <= 36:
		m = raw
	case raw <= 120:
		m = raw * 0.95
	default:
		// Compress implausibly old model outputs toward the cap.
		m = 120 + (raw-120)*0.8
	}
	return math.Min(math.Max(m, 0), catMaxAgeMonths)
}

func calibrateDog(raw float64, size SizeClass) float64 {
	mults := dogBracketMultipliers[size]

	var m float64
	switch {
	case raw <= 12:
		m = raw
	case raw <= 24:
		m = raw * mults[0]
	case raw <= 84:
		m = raw * mults[1]
	default:
		m = raw * mults[2]
	}
	return math.Min(math.Max(m, 0), dogMaxAgeMonths[size])
}

// Cat life-stage boundaries in months, matching the calibration brackets.
var catStageMonths = []struct {
	max   float64
	stage types.LifeStage
}{
	{12, types.LifeStageKitten},
	{36, types.LifeStageYoung},
	{132, types.LifeStageAdult},
	{math.Inf(1), types.LifeStageSenior},
}

var dogStageMonths = []struct {
	max   float64
	stage types.LifeStage
}{
	{12, types.LifeStageKitten}, // puppy stage
	{24, types.LifeStageYoung},
	{96, types.LifeStageAdult},
	{math.Inf(1), types.LifeStageSenior},
}

// modelAgeConfidence is used for estimates derived from a model age head;
// higher than the image heuristics can justify on their own.
const modelAgeConfidence = 0.85

// AgeFromMonths builds a full age estimate from a calibrated month count,
// used on the model-assisted path.
func AgeFromMonths(species types.Species, months float64) types.AgeEstimate {
	if months < 0 {
		months = 0
	}

	stages := dogStageMonths
	if species == types.SpeciesCat {
		stages = catStageMonths
	}
	stage := stages[len(stages)-1].stage
	for _, s := range stages {
		if months < s.max {
			stage = s.stage
			break
		}
	}

	years := months / 12
	rounded := int(math.Round(months))
	return types.AgeEstimate{
		EstimatedYears:  math.Round(years*10) / 10,
		EstimatedMonths: rounded,
		AgeRange:        ageRange(years, rounded),
		LifeStage:       stage,
		Confidence:      modelAgeConfidence,
	}
}
