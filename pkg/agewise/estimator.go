// Package agewise estimates a pet's age, weight and body condition from a
// photo using coarse visual descriptors, and calibrates model-reported ages
// into clinically plausible values.
//
// Everything here is advisory: estimation never fails a request, it
// degrades to a fixed fallback instead.
package agewise

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/menta2k/pet-triage/pkg/types"
)

// Config holds configuration for the estimator.
type Config struct {
	// AnalysisSize is the square edge the working image is resized to
	// before descriptor extraction.
	AnalysisSize int
}

// DefaultConfig returns the standard analysis size.
func DefaultConfig() Config {
	return Config{AnalysisSize: 224}
}

// VisualIndicators are the coarse descriptors extracted from the image and
// the classes derived from them.
type VisualIndicators struct {
	Brightness      float64 `json:"brightness"`
	ColorVariation  float64 `json:"color_variation"`
	BodyProportions float64 `json:"body_proportions"`
	EyeClarity      float64 `json:"eye_clarity"`
	FacialRoundness float64 `json:"facial_roundness"`
	CoatBrightness  float64 `json:"coat_brightness"`
	CoatCondition   string  `json:"coat_condition"`  // healthy, dull, patchy
	BodySize        string  `json:"body_size"`       // small, medium, large
	FacialMaturity  string  `json:"facial_maturity"` // juvenile, mature, senior
}

// Estimate bundles the advisory age and weight results with the raw
// indicators that produced them.
type Estimate struct {
	Age        types.AgeEstimate    `json:"age"`
	Weight     types.WeightEstimate `json:"weight"`
	Indicators VisualIndicators     `json:"indicators"`
}

// Estimator derives age and weight estimates from image heuristics.
type Estimator struct {
	config Config
}

// New creates an estimator with the default configuration.
func New() *Estimator {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an estimator with a custom configuration.
func NewWithConfig(config Config) *Estimator {
	if config.AnalysisSize <= 0 {
		config.AnalysisSize = DefaultConfig().AnalysisSize
	}
	return &Estimator{config: config}
}

// Estimate produces age and weight estimates for the image. Any failure
// inside the heuristics yields the fixed fallback estimate for the species
// rather than an error.
func (e *Estimator) Estimate(img image.Image, species types.Species, breed string) (est Estimate) {
	defer func() {
		if r := recover(); r != nil {
			est = Fallback(species)
		}
	}()

	if img == nil {
		return Fallback(species)
	}

	ind := e.extractIndicators(img)
	return Estimate{
		Age:        e.estimateAge(ind, species),
		Weight:     e.estimateWeight(ind, species, breed),
		Indicators: ind,
	}
}

// luminanceBuckets is the number of width-10 buckets over the 0-255
// luminance range; bucket cardinality proxies texture variation.
const luminanceBuckets = 26

func (e *Estimator) extractIndicators(img image.Image) VisualIndicators {
	resized := imaging.Resize(img, e.config.AnalysisSize, e.config.AnalysisSize, imaging.Lanczos)
	bounds := resized.Bounds()

	var lumSum float64
	var pixels int
	buckets := make(map[int]struct{})

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// 16-bit channels scaled to 0-255.
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			lumSum += lum
			pixels++
			buckets[int(lum)/10] = struct{}{}
		}
	}
	if pixels == 0 {
		panic("empty analysis image")
	}

	brightness := lumSum / float64(pixels) / 255.0
	colorVariation := clamp01(float64(len(buckets)) / luminanceBuckets)

	bodyProportions := math.Min(1, colorVariation*0.7)
	eyeClarity := math.Min(1, brightness*1.2)
	facialRoundness := math.Min(1, (1-bodyProportions)*1.3)

	ind := VisualIndicators{
		Brightness:      brightness,
		ColorVariation:  colorVariation,
		BodyProportions: bodyProportions,
		EyeClarity:      eyeClarity,
		FacialRoundness: facialRoundness,
		CoatBrightness:  brightness,
	}
	ind.CoatCondition = classifyCoat(brightness, colorVariation)
	ind.BodySize = classifyBodySize(brightness, colorVariation)
	ind.FacialMaturity = classifyMaturity(facialRoundness, eyeClarity)
	return ind
}

func classifyCoat(brightness, colorVariation float64) string {
	switch {
	case colorVariation > 0.75:
		return "patchy"
	case brightness < 0.35:
		return "dull"
	default:
		return "healthy"
	}
}

func classifyBodySize(brightness, colorVariation float64) string {
	score := 0.5*brightness + 0.5*colorVariation
	switch {
	case score < 0.35:
		return "small"
	case score > 0.65:
		return "large"
	default:
		return "medium"
	}
}

func classifyMaturity(facialRoundness, eyeClarity float64) string {
	switch {
	case facialRoundness > 0.75 && eyeClarity > 0.6:
		return "juvenile"
	case eyeClarity < 0.35:
		return "senior"
	default:
		return "mature"
	}
}

type ageBracket struct {
	maxScore float64
	stage    types.LifeStage
	years    float64
}

// Species breakpoint tables map the age score to a life stage and a
// representative point estimate in years.
var ageBreakpoints = map[types.Species][]ageBracket{
	types.SpeciesCat: {
		{0.25, types.LifeStageKitten, 0.5},
		{0.45, types.LifeStageYoung, 2},
		{0.70, types.LifeStageAdult, 6},
		{math.Inf(1), types.LifeStageSenior, 12},
	},
	types.SpeciesDog: {
		{0.25, types.LifeStageKitten, 0.5}, // puppy stage
		{0.45, types.LifeStageYoung, 2},
		{0.70, types.LifeStageAdult, 5},
		{math.Inf(1), types.LifeStageSenior, 10},
	},
}

func (e *Estimator) estimateAge(ind VisualIndicators, species types.Species) types.AgeEstimate {
	score := (1-ind.FacialRoundness)*0.3 +
		(1-ind.EyeClarity)*0.4 +
		ind.BodyProportions*0.2 +
		(1-ind.CoatBrightness)*0.1

	brackets, ok := ageBreakpoints[species]
	if !ok {
		brackets = ageBreakpoints[types.SpeciesDog]
	}
	stage, years := brackets[len(brackets)-1].stage, brackets[len(brackets)-1].years
	for _, b := range brackets {
		if score < b.maxScore {
			stage, years = b.stage, b.years
			break
		}
	}

	months := int(math.Round(years * 12))
	return types.AgeEstimate{
		EstimatedYears:  years,
		EstimatedMonths: months,
		AgeRange:        ageRange(years, months),
		LifeStage:       stage,
		Confidence:      clamp01(0.7*ind.EyeClarity + 0.3*ind.CoatBrightness),
	}
}

// ageRange renders a month range of +-3 months for animals under a year,
// otherwise a whole-year range of +-1 year.
func ageRange(years float64, months int) string {
	if years < 1 {
		lo := months - 3
		if lo < 1 {
			lo = 1
		}
		return fmt.Sprintf("%d-%d months", lo, months+3)
	}
	yr := int(math.Round(years))
	lo := yr - 1
	if lo < 1 {
		lo = 1
	}
	return fmt.Sprintf("%d-%d years", lo, yr+1)
}

const (
	catBaseWeightLbs     = 9.0
	dogDefaultWeightLbs  = 40.0
	juvenileWeightFactor = 0.4
	weightConfidenceCap  = 0.6
)

// dogBaseWeights maps breed-name keywords to typical adult weight in
// pounds. Lookup is substring-based so "Labrador Retriever Mix" still
// resolves.
var dogBaseWeights = []struct {
	keyword string
	lbs     float64
}{
	{"chihuahua", 5},
	{"pomeranian", 7},
	{"yorkshire", 7},
	{"maltese", 7},
	{"shih tzu", 11},
	{"dachshund", 12},
	{"pug", 16},
	{"beagle", 22},
	{"french bulldog", 24},
	{"cocker spaniel", 26},
	{"border collie", 40},
	{"husky", 50},
	{"boxer", 65},
	{"golden retriever", 65},
	{"labrador", 70},
	{"german shepherd", 75},
	{"rottweiler", 100},
	{"great dane", 140},
	{"mastiff", 160},
}

func (e *Estimator) estimateWeight(ind VisualIndicators, species types.Species, breed string) types.WeightEstimate {
	weight := baseWeight(species, breed)

	switch ind.BodySize {
	case "small":
		weight *= 0.7
	case "large":
		weight *= 1.3
	}
	if ind.FacialMaturity == "juvenile" {
		weight *= juvenileWeightFactor
	}

	// Breed size-group override on top of the base-weight lookup.
	if species == types.SpeciesDog {
		switch BreedSizeClass(breed) {
		case SizeSmall:
			weight *= 0.85
		case SizeLarge:
			weight *= 1.15
		}
	}

	lo, hi := plausibleWeightRange(species)
	weight = math.Min(math.Max(weight, lo), hi)

	bcs := ind.CoatBrightness*0.5 + (1-math.Abs(ind.BodyProportions-0.5))*0.5
	condition := types.BodyConditionIdeal
	switch {
	case bcs < 0.4:
		condition = types.BodyConditionUnderweight
	case bcs > 0.7:
		condition = types.BodyConditionOverweight
	}

	ageConf := clamp01(0.7*ind.EyeClarity + 0.3*ind.CoatBrightness)
	return types.WeightEstimate{
		EstimatedWeightLbs: round1(weight),
		WeightRange:        fmt.Sprintf("%.0f-%.0f lbs", math.Max(weight*0.85, lo), math.Min(weight*1.15, hi)),
		BodyCondition:      condition,
		Confidence:         math.Min(weightConfidenceCap, ageConf*0.8),
	}
}

func baseWeight(species types.Species, breed string) float64 {
	if species == types.SpeciesCat {
		return catBaseWeightLbs
	}
	lower := strings.ToLower(breed)
	for _, bw := range dogBaseWeights {
		if strings.Contains(lower, bw.keyword) {
			return bw.lbs
		}
	}
	return dogDefaultWeightLbs
}

func plausibleWeightRange(species types.Species) (lo, hi float64) {
	if species == types.SpeciesCat {
		return 4, 25
	}
	return 3, 200
}

// Fallback is the fixed mid-range adult estimate used when image analysis
// fails. It never propagates an error because age and weight are always
// advisory.
func Fallback(species types.Species) Estimate {
	const fallbackConfidence = 0.3

	years, weight := 4.0, 40.0
	weightRange := "34-46 lbs"
	if species == types.SpeciesCat {
		years, weight = 4.0, 10.0
		weightRange = "8-12 lbs"
	}

	return Estimate{
		Age: types.AgeEstimate{
			EstimatedYears:  years,
			EstimatedMonths: int(years * 12),
			AgeRange:        ageRange(years, int(years*12)),
			LifeStage:       types.LifeStageAdult,
			Confidence:      fallbackConfidence,
		},
		Weight: types.WeightEstimate{
			EstimatedWeightLbs: weight,
			WeightRange:        weightRange,
			BodyCondition:      types.BodyConditionIdeal,
			Confidence:         fallbackConfidence,
		},
		Indicators: VisualIndicators{
			CoatCondition:  "healthy",
			BodySize:       "medium",
			FacialMaturity: "mature",
		},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
