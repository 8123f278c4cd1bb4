package main

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/menta2k/pet-triage/pkg/types"
)

var analyzeOpts struct {
	Part      string
	Species   string
	Breed     string
	AgeWeight bool
	JSON      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze one pet photo and print a triage report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequest(analyzeOpts.Part, analyzeOpts.Species, analyzeOpts.Breed, analyzeOpts.AgeWeight)
		if err != nil {
			return err
		}

		analyzer, cleanup, err := buildAnalyzer()
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := analyzer.AnalyzeFile(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}

		if analyzeOpts.JSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		printReport(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOpts.Part, "part", "p", "", "body part: skin|ear|paw|eye|body")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.Species, "species", "s", "", "species: cat|dog")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.Breed, "breed", "b", "", "breed hint (optional)")
	analyzeCmd.Flags().BoolVarP(&analyzeOpts.AgeWeight, "age-weight", "a", false, "also estimate age and weight")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.JSON, "json", false, "print the raw JSON report")

	analyzeCmd.MarkFlagRequired("part")
	analyzeCmd.MarkFlagRequired("species")
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(report *types.TriageReport) {
	colorstring.Printf("[bold]%s / %s[reset]\n", report.Species, report.BodyPart)

	if report.Detected {
		colorstring.Printf("[red]condition detected[reset] (confidence %.0f%%)\n", report.Confidence*100)
	} else {
		colorstring.Printf("[green]no condition detected[reset] (confidence %.0f%%)\n", report.Confidence*100)
	}

	if len(report.Conditions) > 0 {
		fmt.Println("\nLikely conditions:")
		for _, cond := range report.Conditions {
			urgency := colorstring.Color(fmt.Sprintf("[%s]%s[reset]", urgencyColor(cond.Urgency), cond.Urgency))
			fmt.Printf("  %-28s %5.1f%%  %-8s  %s\n",
				cond.Name, cond.Probability*100, cond.Severity, urgency)
		}
	}

	if len(report.Spatial.Regions) > 0 {
		fmt.Println("\nAffected regions:")
		for _, region := range report.Spatial.Regions {
			fmt.Printf("  %-14s severity %.2f\n", region.Location, region.Severity)
		}
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}

	if report.VeterinaryConsultation {
		colorstring.Println("\n[red][bold]Veterinary consultation recommended.")
	} else {
		colorstring.Println("\n[green]No veterinary consultation needed at this time.")
	}

	if report.Age != nil {
		fmt.Printf("\nEstimated age: %.1f years (%s, %s, confidence %.0f%%)\n",
			report.Age.EstimatedYears, report.Age.AgeRange, report.Age.LifeStage,
			report.Age.Confidence*100)
	}
	if report.Weight != nil {
		fmt.Printf("Estimated weight: %.1f lbs (%s, %s, confidence %.0f%%)\n",
			report.Weight.EstimatedWeightLbs, report.Weight.WeightRange,
			report.Weight.BodyCondition, report.Weight.Confidence*100)
	}
}

func urgencyColor(u types.UrgencyTier) string {
	switch u {
	case types.UrgencyEmergency:
		return "red"
	case types.UrgencyUrgent:
		return "yellow"
	case types.UrgencySoon:
		return "cyan"
	default:
		return "green"
	}
}
