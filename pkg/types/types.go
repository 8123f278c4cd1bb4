package types

// Species identifies the animal species supported by the triage pipeline.
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

// BodyPart identifies which anatomy a photo shows. Each body part has its
// own prototype catalog and recommendation tables but shares one
// classification algorithm.
type BodyPart string

const (
	BodyPartSkin BodyPart = "skin"
	BodyPartEar  BodyPart = "ear"
	BodyPartPaw  BodyPart = "paw"
	BodyPartEye  BodyPart = "eye"
	BodyPartBody BodyPart = "body"
)

// BodyParts returns all supported body parts in catalog order.
func BodyParts() []BodyPart {
	return []BodyPart{BodyPartSkin, BodyPartEar, BodyPartPaw, BodyPartEye, BodyPartBody}
}

// UrgencyTier orders how quickly a condition should be seen:
// routine < soon < urgent < emergency.
type UrgencyTier string

const (
	UrgencyRoutine   UrgencyTier = "routine"
	UrgencySoon      UrgencyTier = "soon"
	UrgencyUrgent    UrgencyTier = "urgent"
	UrgencyEmergency UrgencyTier = "emergency"
)

var urgencyRank = map[UrgencyTier]int{
	UrgencyRoutine:   0,
	UrgencySoon:      1,
	UrgencyUrgent:    2,
	UrgencyEmergency: 3,
}

// Valid reports whether u is a known urgency tier.
func (u UrgencyTier) Valid() bool {
	_, ok := urgencyRank[u]
	return ok
}

// Escalate raises the urgency by exactly one tier, saturating at emergency.
// Unknown tiers are returned unchanged.
func (u UrgencyTier) Escalate() UrgencyTier {
	switch u {
	case UrgencyRoutine:
		return UrgencySoon
	case UrgencySoon:
		return UrgencyUrgent
	case UrgencyUrgent, UrgencyEmergency:
		return UrgencyEmergency
	}
	return u
}

// Severity is the per-condition severity derived from its probability.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// LifeStage is the coarse age bracket. Kitten doubles as the puppy stage
// for dogs.
type LifeStage string

const (
	LifeStageKitten LifeStage = "kitten"
	LifeStageYoung  LifeStage = "young"
	LifeStageAdult  LifeStage = "adult"
	LifeStageSenior LifeStage = "senior"
)

// BodyCondition is the coarse body-condition score bucket.
type BodyCondition string

const (
	BodyConditionUnderweight BodyCondition = "underweight"
	BodyConditionIdeal       BodyCondition = "ideal"
	BodyConditionOverweight  BodyCondition = "overweight"
)

// FeatureSet is the output of a feature provider for one image: a single
// global embedding plus one embedding per spatial tile, row-major by raster
// order.
type FeatureSet struct {
	Global  []float64   `json:"global"`
	Patches [][]float64 `json:"patches"`
}

// ClassifiedCondition is one ranked condition from the zero-shot classifier.
type ClassifiedCondition struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Probability float64     `json:"probability"`
	Severity    Severity    `json:"severity"`
	Urgency     UrgencyTier `json:"urgency"`
}

// Classification is the full classifier output for one image.
type Classification struct {
	Conditions []ClassifiedCondition `json:"conditions"`
	Confidence float64               `json:"confidence"`
	Detected   bool                  `json:"detected"`
}

// Region is a human-readable image location with a normalized severity.
type Region struct {
	Location string  `json:"location"`
	Severity float64 `json:"severity"`
}

// VisualFeatures are the five continuous indicators derived from the
// statistical shape of patch activations. All values are in [0,1].
type VisualFeatures struct {
	Redness      float64 `json:"redness"`
	Inflammation float64 `json:"inflammation"`
	HairLoss     float64 `json:"hair_loss"`
	Lesions      float64 `json:"lesions"`
	Scaling      float64 `json:"scaling"`
}

// SpatialAnalysis localizes where on the image activity concentrates.
type SpatialAnalysis struct {
	Regions        []Region       `json:"regions"`
	VisualFeatures VisualFeatures `json:"visual_features"`
}

// AgeEstimate is an advisory age estimate from image heuristics or a
// calibrated model age head.
type AgeEstimate struct {
	EstimatedYears  float64   `json:"estimated_years"`
	EstimatedMonths int       `json:"estimated_months"`
	AgeRange        string    `json:"age_range"`
	LifeStage       LifeStage `json:"life_stage"`
	Confidence      float64   `json:"confidence"`
}

// WeightEstimate is an advisory weight estimate. Weight-from-image is
// inherently less reliable than age, so its confidence is capped lower.
type WeightEstimate struct {
	EstimatedWeightLbs float64       `json:"estimated_weight_lbs"`
	WeightRange        string        `json:"weight_range"`
	BodyCondition      BodyCondition `json:"body_condition"`
	Confidence         float64       `json:"confidence"`
}

// TriageReport is the complete per-request result. It is a value object
// owned by the request that produced it; nothing in it is persisted.
type TriageReport struct {
	BodyPart               BodyPart              `json:"body_part"`
	Species                Species               `json:"species"`
	Detected               bool                  `json:"detected"`
	Confidence             float64               `json:"confidence"`
	Conditions             []ClassifiedCondition `json:"conditions"`
	Spatial                SpatialAnalysis       `json:"spatial"`
	Recommendations        []string              `json:"recommendations"`
	VeterinaryConsultation bool                  `json:"veterinary_consultation"`
	Age                    *AgeEstimate          `json:"age,omitempty"`
	Weight                 *WeightEstimate       `json:"weight,omitempty"`
}
