// Package policy turns classifier and spatial output into owner-facing
// guidance: ordered care recommendations and the veterinary-consultation
// decision. Recommendations are table-driven (category checklist per body
// part) plus a small set of orthogonal modifier rules.
package policy

import (
	"strings"

	"github.com/menta2k/pet-triage/pkg/types"
)

// Thresholds for the visual-feature modifier rules and the consultation
// decision.
const (
	inflammationCompress   = 0.5
	hairLossPhotoNote      = 0.6
	consultProbability     = 0.7
	consultInflammation    = 0.7
	consultLesions         = 0.8
	consultMultiThreshold  = 0.4
	consultModerateMinimum = 0.6
)

// Policy generates recommendations and consultation decisions for one
// body part.
type Policy struct {
	bodyPart        types.BodyPart
	healthyCategory string
}

// For returns the policy for a body part.
func For(bodyPart types.BodyPart, healthyCategory string) *Policy {
	return &Policy{bodyPart: bodyPart, healthyCategory: healthyCategory}
}

// Recommendations builds the ordered, human-readable recommendation list.
// A healthy or empty result yields a single reassurance message.
func (p *Policy) Recommendations(conditions []types.ClassifiedCondition, vf types.VisualFeatures, breed string) []string {
	if len(conditions) == 0 || conditions[0].Category == p.healthyCategory {
		return []string{healthyMessages[p.bodyPart]}
	}
	top := conditions[0]

	var recs []string
	if checklist, ok := careInstructions[p.bodyPart][top.Category]; ok {
		recs = append(recs, checklist...)
	} else {
		recs = append(recs, genericInstructions...)
	}

	if note := breedNoteFor(p.bodyPart, breed); note != "" {
		recs = append(recs, note)
	}
	if vf.Inflammation > inflammationCompress {
		recs = append(recs, "Apply a cool, damp compress to the area for a few minutes to ease inflammation.")
	}
	if vf.HairLoss > hairLossPhotoNote {
		recs = append(recs, "Photograph the area daily so any spread of hair loss is documented for your veterinarian.")
	}
	if top.Urgency == types.UrgencyUrgent || top.Urgency == types.UrgencyEmergency {
		recs = append(recs, "This condition can worsen quickly. Seek immediate veterinary attention.")
	}
	return recs
}

// NeedsVeterinaryConsultation returns true when any single trigger fires:
// a high-probability urgent condition, strong inflammation or lesion
// signals, multiple plausible conditions, or a confident moderate finding.
func (p *Policy) NeedsVeterinaryConsultation(conditions []types.ClassifiedCondition, vf types.VisualFeatures) bool {
	if len(conditions) > 0 {
		top := conditions[0]
		if top.Probability > consultProbability &&
			(top.Urgency == types.UrgencyUrgent || top.Urgency == types.UrgencyEmergency) {
			return true
		}
		if top.Severity == types.SeverityModerate && top.Probability > consultModerateMinimum {
			return true
		}
	}

	if vf.Inflammation > consultInflammation || vf.Lesions > consultLesions {
		return true
	}

	plausible := 0
	for _, c := range conditions {
		if c.Probability > consultMultiThreshold {
			plausible++
		}
	}
	return plausible >= 2
}

var healthyMessages = map[types.BodyPart]string{
	types.BodyPartSkin: "No skin concerns detected. Continue regular grooming and monitoring.",
	types.BodyPartEar:  "No ear concerns detected. Continue routine ear checks during grooming.",
	types.BodyPartPaw:  "No paw concerns detected. Keep nails trimmed and check pads after walks.",
	types.BodyPartEye:  "No eye concerns detected. Continue monitoring for discharge or squinting.",
	types.BodyPartBody: "Body condition looks healthy. Maintain the current diet and exercise routine.",
}

var genericInstructions = []string{
	"Monitor the area daily for any change in size, color or discomfort.",
	"Prevent licking or scratching of the area; consider a protective collar if needed.",
}

// careInstructions maps body part and condition category to a fixed
// checklist of 2-3 concrete care steps, appended in order.
var careInstructions = map[types.BodyPart]map[string][]string{
	types.BodyPartSkin: {
		"bacterial": {
			"Gently clip hair around the area and clean it with a veterinary antiseptic solution.",
			"Keep the area dry and prevent licking or scratching with a protective collar.",
			"Watch for spreading redness or discharge over the next 24-48 hours.",
		},
		"fungal": {
			"Isolate bedding and grooming tools and wash them in hot water; some fungal infections spread to people.",
			"Avoid touching the area without washing hands afterwards.",
			"Ask your veterinarian about antifungal shampoo or topical treatment.",
		},
		"allergic": {
			"Note any recent changes in food, treats, bedding or cleaning products.",
			"Bathe with a gentle hypoallergenic shampoo to remove surface allergens.",
			"Keep a diary of flare-ups to help identify the trigger.",
		},
		"parasitic": {
			"Check the whole coat for fleas, ticks or flea dirt, especially over the rump and tail base.",
			"Treat all pets in the household with a veterinary-approved parasite preventive.",
			"Wash bedding at high temperature and vacuum resting areas thoroughly.",
		},
	},
	types.BodyPartEar: {
		"bacterial": {
			"Do not insert cotton buds into the ear canal; clean only the visible outer ear.",
			"Keep the ear dry and avoid swimming or bathing until it is examined.",
			"Note any odor or discharge color to describe to your veterinarian.",
		},
		"fungal": {
			"Wipe away visible debris from the outer ear with a pet ear cleaner on a cotton pad.",
			"Keep the ears dry after baths and swimming; moisture feeds yeast.",
		},
		"parasitic": {
			"Treat every cat and dog in the household; ear mites transfer easily between pets.",
			"Wash bedding and clean shared resting spots.",
			"Expect dark, crumbly debris to keep appearing until treatment finishes.",
		},
		"allergic": {
			"Track whether head shaking flares after certain foods or seasons.",
			"Clean the outer ear weekly with a veterinary ear cleaner.",
		},
		"injury": {
			"Prevent further head shaking where possible and keep the ear flap protected.",
			"Do not lance or drain swelling at home.",
		},
	},
	types.BodyPartPaw: {
		"bacterial": {
			"Soak the paw in dilute antiseptic solution and dry thoroughly between the toes.",
			"Prevent licking with a protective collar or a breathable bootie.",
		},
		"fungal": {
			"Keep the paw clean and dry, especially between the pads.",
			"Wash paw coverings and bedding in hot water.",
		},
		"allergic": {
			"Rinse paws with cool water after walks to remove pollen and road salt.",
			"Note whether licking worsens after grass exposure or in certain seasons.",
		},
		"nail_bed": {
			"Keep the nail clean and dry and trim surrounding hair carefully.",
			"Do not pull at a cracked or loose claw; protect it with a loose wrap.",
			"Watch for swelling spreading up the toe.",
		},
		"injury": {
			"Rinse the pad with clean water and apply gentle pressure with a clean cloth if bleeding.",
			"Keep weight off the paw and cover it with a clean, breathable wrap.",
			"Avoid hot pavement and rough ground until the pad heals.",
		},
		"foreign_body": {
			"Inspect between all toes and pads for seeds, thorns or splinters.",
			"If something is embedded, do not dig for it; cover the paw and see a veterinarian.",
		},
	},
	types.BodyPartEye: {
		"bacterial": {
			"Wipe discharge from the eyelid margins with a clean, damp cotton pad, one pad per eye.",
			"Do not use human eye drops unless a veterinarian directs it.",
			"Keep hair trimmed away from the eye.",
		},
		"allergic": {
			"Rinse the eye area gently with sterile saline to flush allergens.",
			"Limit exposure to dusty or high-pollen environments during flare-ups.",
		},
		"injury": {
			"Stop the pet from rubbing the eye; fit a protective collar right away.",
			"Do not apply any medication to the eye before it is examined.",
			"Keep the pet in dim light if it is squinting or light-sensitive.",
		},
		"other": {
			"Note when the change first appeared and whether it is growing.",
			"Photograph the eye in good light for comparison at the veterinary visit.",
		},
	},
	types.BodyPartBody: {
		"obesity": {
			"Measure meals rather than free-feeding, and cut back treats to under 10% of daily calories.",
			"Introduce gradual daily exercise appropriate for the pet's age and joints.",
			"Weigh the pet every two weeks to track the trend.",
		},
		"underweight": {
			"Offer several small, calorie-dense meals per day rather than one large meal.",
			"Rule out parasites with a fecal check and routine deworming.",
			"Track weight weekly; continued loss despite good appetite needs investigation.",
		},
		"coat": {
			"Brush daily to distribute natural oils and remove dead undercoat.",
			"Review the diet for adequate protein and omega-3 fatty acids.",
		},
	},
}

// breedNotes maps a body part to at-risk breed groups and the note appended
// when the owner-supplied breed matches the group.
var breedNotes = map[types.BodyPart][]breedNote{
	types.BodyPartSkin: {
		{
			breeds: []string{"golden retriever", "labrador retriever", "german shepherd", "west highland white terrier", "french bulldog", "shar pei"},
			note:   "This breed is prone to chronic skin problems; early veterinary review of recurring lesions pays off.",
		},
	},
	types.BodyPartEar: {
		{
			breeds: []string{"cocker spaniel", "basset hound", "springer spaniel", "poodle", "labrador retriever"},
			note:   "Floppy-eared and heavy-coated breeds trap moisture in the canal; weekly ear checks are worthwhile for this breed.",
		},
	},
	types.BodyPartPaw: {
		{
			breeds: []string{"english bulldog", "french bulldog", "shar pei", "west highland white terrier"},
			note:   "This breed is predisposed to interdigital problems; check between the toes during regular grooming.",
		},
	},
	types.BodyPartEye: {
		{
			breeds: []string{"pug", "shih tzu", "pekingese", "boston terrier", "persian"},
			note:   "Flat-faced breeds have prominent, exposed eyes; treat any eye change in this breed as time-sensitive.",
		},
	},
	types.BodyPartBody: {
		{
			breeds: []string{"labrador retriever", "beagle", "dachshund", "pug"},
			note:   "This breed gains weight easily; strict portion control matters more than for most breeds.",
		},
	},
}

type breedNote struct {
	breeds []string
	note   string
}

func breedNoteFor(bodyPart types.BodyPart, breed string) string {
	if breed == "" {
		return ""
	}
	for _, bn := range breedNotes[bodyPart] {
		for _, b := range bn.breeds {
			if strings.EqualFold(b, breed) {
				return bn.note
			}
		}
	}
	return ""
}
