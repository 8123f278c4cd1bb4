package catalog

import "github.com/menta2k/pet-triage/pkg/types"

// Body returns the built-in whole-body condition catalog. Categories:
// obesity, underweight, coat, healthy.
func Body() *Catalog {
	return finalize(&Catalog{
		BodyPart:        types.BodyPartBody,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{
				Name:        "Obesity",
				Category:    "obesity",
				Urgency:     types.UrgencySoon,
				Description: "No palpable waist or rib definition with heavy fat deposits over the back and tail base.",
				RiskBreeds:  []string{"Labrador Retriever", "Beagle", "Dachshund", "Pug"},
			},
			{
				Name:        "Overweight",
				Category:    "obesity",
				Urgency:     types.UrgencyRoutine,
				Description: "Ribs palpable only with pressure and a barely visible waist; body condition above ideal.",
			},
			{
				Name:        "Underweight",
				Category:    "underweight",
				Urgency:     types.UrgencySoon,
				Description: "Easily visible ribs, spine and hip bones with minimal fat cover.",
			},
			{
				Name:        "Emaciation",
				Category:    "underweight",
				Urgency:     types.UrgencyUrgent,
				Description: "Severe muscle wasting with prominent skeletal structures visible from a distance.",
			},
			{
				Name:        "Dull coat",
				Category:    "coat",
				Urgency:     types.UrgencyRoutine,
				Description: "Dry, brittle, lusterless coat suggesting nutritional or metabolic issues.",
			},
			{
				Name:        "Patchy coat loss",
				Category:    "coat",
				Urgency:     types.UrgencySoon,
				Description: "Irregular areas of thinning or missing hair across the trunk.",
			},
			{
				Name:        "Ideal body condition",
				Category:    "healthy",
				Urgency:     types.UrgencyRoutine,
				Description: "Visible waist behind the ribs, ribs palpable with light pressure and a glossy, even coat.",
			},
		},
	})
}
