package catalog

import "github.com/menta2k/pet-triage/pkg/types"

// Paw returns the built-in paw catalog. Categories: bacterial, fungal,
// allergic, nail_bed, injury, foreign_body, healthy.
func Paw() *Catalog {
	return finalize(&Catalog{
		BodyPart:        types.BodyPartPaw,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{
				Name:        "Nail bed infection",
				Category:    "nail_bed",
				Urgency:     types.UrgencySoon,
				Description: "Paronychia: swollen, painful nail folds with discharge, often with a cracked or discolored claw.",
			},
			{
				Name:        "Interdigital furuncle",
				Category:    "bacterial",
				Urgency:     types.UrgencySoon,
				Description: "Deep pyoderma between the toes forming painful draining nodules.",
				RiskBreeds:  []string{"English Bulldog", "French Bulldog", "Shar Pei"},
			},
			{
				Name:        "Fungal pododermatitis",
				Category:    "fungal",
				Urgency:     types.UrgencyRoutine,
				Description: "Yeast or dermatophyte infection of the paw with brown staining and greasy debris between pads.",
			},
			{
				Name:        "Allergic pododermatitis",
				Category:    "allergic",
				Urgency:     types.UrgencyRoutine,
				Description: "Allergy-driven paw licking and chewing leaving saliva-stained, inflamed interdigital skin.",
				RiskBreeds:  []string{"West Highland White Terrier", "Labrador Retriever"},
			},
			{
				Name:        "Pad laceration",
				Category:    "injury",
				Urgency:     types.UrgencyUrgent,
				Description: "Cut or torn paw pad, frequently bleeding heavily and at risk of contamination.",
			},
			{
				Name:        "Burned pads",
				Category:    "injury",
				Urgency:     types.UrgencyUrgent,
				Description: "Thermal or chemical burns with blistered, peeling pad surfaces, typically from hot pavement.",
			},
			{
				Name:        "Grass seed foreign body",
				Category:    "foreign_body",
				Urgency:     types.UrgencySoon,
				Description: "Migrating awn lodged between toes causing a draining tract and persistent licking of one spot.",
			},
			{
				Name:        "Healthy paw",
				Category:    "healthy",
				Urgency:     types.UrgencyRoutine,
				Description: "Intact pads with normal pigmentation, trimmed nails and dry interdigital skin.",
			},
		},
	})
}
