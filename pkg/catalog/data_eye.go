package catalog

import "github.com/menta2k/pet-triage/pkg/types"

// Eye returns the built-in eye catalog. Categories: bacterial, allergic,
// injury, other, healthy.
func Eye() *Catalog {
	return finalize(&Catalog{
		BodyPart:        types.BodyPartEye,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{
				Name:        "Conjunctivitis",
				Category:    "bacterial",
				Urgency:     types.UrgencySoon,
				Description: "Inflamed conjunctiva with redness and mucoid to purulent discharge.",
			},
			{
				Name:        "Corneal ulcer",
				Category:    "injury",
				Urgency:     types.UrgencyEmergency,
				Description: "Break in the corneal surface causing squinting, tearing and light sensitivity; can perforate quickly.",
				RiskBreeds:  []string{"Pug", "Shih Tzu", "Pekingese", "Boston Terrier"},
			},
			{
				Name:        "Cherry eye",
				Category:    "other",
				Urgency:     types.UrgencySoon,
				Description: "Prolapsed third-eyelid gland appearing as a red mass at the inner corner of the eye.",
				RiskBreeds:  []string{"Beagle", "Cocker Spaniel", "English Bulldog"},
			},
			{
				Name:        "Cataract",
				Category:    "other",
				Urgency:     types.UrgencyRoutine,
				Description: "Cloudy white opacity of the lens gradually reducing vision.",
			},
			{
				Name:        "Glaucoma",
				Category:    "other",
				Urgency:     types.UrgencyEmergency,
				Description: "Raised intraocular pressure: a painful, bulging, bloodshot eye with a dilated pupil.",
			},
			{
				Name:        "Allergic conjunctivitis",
				Category:    "allergic",
				Urgency:     types.UrgencyRoutine,
				Description: "Itchy, watery, puffy eyes flaring with seasonal or environmental allergens.",
			},
			{
				Name:        "Epiphora",
				Category:    "other",
				Urgency:     types.UrgencyRoutine,
				Description: "Chronic tear overflow with reddish-brown staining below the inner eye corner.",
			},
			{
				Name:        "Healthy eye",
				Category:    "healthy",
				Urgency:     types.UrgencyRoutine,
				Description: "Bright, clear eye with white sclera, no discharge and symmetric pupils.",
			},
		},
	})
}
