package catalog

import "github.com/menta2k/pet-triage/pkg/types"

// Ear returns the built-in ear catalog. Categories: bacterial, fungal,
// parasitic, allergic, injury, healthy.
func Ear() *Catalog {
	return finalize(&Catalog{
		BodyPart:        types.BodyPartEar,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{
				Name:        "Bacterial otitis externa",
				Category:    "bacterial",
				Urgency:     types.UrgencySoon,
				Description: "Bacterial ear canal infection with yellow-green discharge, odor and head shaking.",
				RiskBreeds:  []string{"Cocker Spaniel", "Basset Hound", "Springer Spaniel"},
			},
			{
				Name:        "Yeast otitis",
				Category:    "fungal",
				Urgency:     types.UrgencySoon,
				Description: "Malassezia overgrowth in the ear canal: dark brown waxy debris with a distinctive musty smell.",
				RiskBreeds:  []string{"Labrador Retriever", "Poodle"},
			},
			{
				Name:        "Ear mites",
				Category:    "parasitic",
				Urgency:     types.UrgencySoon,
				Description: "Otodectes infestation producing dry coffee-ground debris and intense scratching; common in kittens.",
			},
			{
				Name:        "Allergic otitis",
				Category:    "allergic",
				Urgency:     types.UrgencyRoutine,
				Description: "Recurrent ear inflammation driven by underlying food or environmental allergy.",
			},
			{
				Name:        "Aural hematoma",
				Category:    "injury",
				Urgency:     types.UrgencyUrgent,
				Description: "Blood-filled swelling of the ear flap from violent head shaking; needs drainage to avoid scarring.",
			},
			{
				Name:        "Healthy ear",
				Category:    "healthy",
				Urgency:     types.UrgencyRoutine,
				Description: "Clean pale-pink ear canal with minimal wax and no odor or discharge.",
			},
		},
	})
}
