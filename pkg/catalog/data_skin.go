package catalog

import "github.com/menta2k/pet-triage/pkg/types"

// Skin returns the built-in skin catalog. Categories: bacterial, fungal,
// allergic, parasitic, healthy.
func Skin() *Catalog {
	return finalize(&Catalog{
		BodyPart:        types.BodyPartSkin,
		HealthyCategory: "healthy",
		Prototypes: []Prototype{
			{
				Name:        "Hot spot",
				Category:    "bacterial",
				Urgency:     types.UrgencySoon,
				Description: "Acute moist dermatitis: a rapidly spreading, raw, weeping patch usually triggered by self-trauma.",
				RiskBreeds:  []string{"Golden Retriever", "Labrador Retriever", "German Shepherd", "Saint Bernard"},
			},
			{
				Name:        "Pyoderma",
				Category:    "bacterial",
				Urgency:     types.UrgencySoon,
				Description: "Bacterial skin infection with pustules, crusts and epidermal collarettes, often secondary to allergies.",
			},
			{
				Name:        "Ringworm",
				Category:    "fungal",
				Urgency:     types.UrgencySoon,
				Description: "Dermatophyte infection producing circular patches of hair loss with scaly margins; zoonotic.",
				RiskBreeds:  []string{"Persian", "Himalayan", "Yorkshire Terrier"},
			},
			{
				Name:        "Malassezia dermatitis",
				Category:    "fungal",
				Urgency:     types.UrgencyRoutine,
				Description: "Yeast overgrowth causing greasy, musty-smelling skin with darkened thickened areas.",
				RiskBreeds:  []string{"West Highland White Terrier", "Basset Hound"},
			},
			{
				Name:        "Atopic dermatitis",
				Category:    "allergic",
				Urgency:     types.UrgencyRoutine,
				Description: "Environmental allergy presenting as itching, redness and recurrent skin or ear infections.",
				RiskBreeds:  []string{"French Bulldog", "West Highland White Terrier", "Labrador Retriever"},
			},
			{
				Name:        "Flea allergy dermatitis",
				Category:    "parasitic",
				Urgency:     types.UrgencySoon,
				Description: "Hypersensitivity to flea saliva: intense itching and crusting concentrated over the rump and tail base.",
			},
			{
				Name:        "Sarcoptic mange",
				Category:    "parasitic",
				Urgency:     types.UrgencyUrgent,
				Description: "Highly contagious mite infestation with severe itching, crusting on ear margins and elbows.",
			},
			{
				Name:        "Healthy skin",
				Category:    "healthy",
				Urgency:     types.UrgencyRoutine,
				Description: "Supple skin with a full, glossy coat and no redness, scaling or lesions.",
			},
		},
	})
}
