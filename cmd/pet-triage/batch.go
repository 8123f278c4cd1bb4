package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/menta2k/pet-triage/internal/utils"
)

var batchOpts struct {
	Part      string
	Species   string
	Breed     string
	AgeWeight bool
	OutputDir string
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every image in a directory and write JSON reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequest(batchOpts.Part, batchOpts.Species, batchOpts.Breed, batchOpts.AgeWeight)
		if err != nil {
			return err
		}
		if !utils.DirExists(args[0]) {
			return fmt.Errorf("input directory does not exist: %s", args[0])
		}
		if err := utils.EnsureDir(batchOpts.OutputDir); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		images, err := utils.ListImageFiles(args[0])
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		if len(images) == 0 {
			return fmt.Errorf("no images found in %s", args[0])
		}

		analyzer, cleanup, err := buildAnalyzer()
		if err != nil {
			return err
		}
		defer cleanup()

		bar := progressbar.NewOptions(len(images),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		failed := 0
		for _, imagePath := range images {
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			report, err := analyzer.AnalyzeFile(cmd.Context(), imagePath, req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", imagePath, err)
				failed++
				bar.Add(1)
				continue
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report for %s: %w", imagePath, err)
			}
			outPath := utils.ReportFilename(imagePath, batchOpts.OutputDir)
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			bar.Add(1)
		}
		bar.Finish()

		fmt.Fprintf(os.Stderr, "\nAnalyzed %d images (%d failed), reports in %s\n",
			len(images)-failed, failed, batchOpts.OutputDir)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOpts.Part, "part", "p", "", "body part: skin|ear|paw|eye|body")
	batchCmd.Flags().StringVarP(&batchOpts.Species, "species", "s", "", "species: cat|dog")
	batchCmd.Flags().StringVarP(&batchOpts.Breed, "breed", "b", "", "breed hint (optional)")
	batchCmd.Flags().BoolVarP(&batchOpts.AgeWeight, "age-weight", "a", false, "also estimate age and weight")
	batchCmd.Flags().StringVarP(&batchOpts.OutputDir, "out", "o", "reports", "output directory for JSON reports")

	batchCmd.MarkFlagRequired("part")
	batchCmd.MarkFlagRequired("species")
	rootCmd.AddCommand(batchCmd)
}
