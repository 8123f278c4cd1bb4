package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	pettriage "github.com/menta2k/pet-triage"
	"github.com/menta2k/pet-triage/internal/config"
	"github.com/menta2k/pet-triage/pkg/agewise"
	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/classifier"
	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/features/embedhttp"
	"github.com/menta2k/pet-triage/pkg/features/ollamaage"
	"github.com/menta2k/pet-triage/pkg/features/onnx"
	"github.com/menta2k/pet-triage/pkg/spatial"
	"github.com/menta2k/pet-triage/pkg/triage"
	"github.com/menta2k/pet-triage/pkg/types"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "pet-triage",
	Short:   "Veterinary triage reports from pet photos",
	Long: `pet-triage analyzes a photo of a pet's skin, ear, paw, eye or body,
ranks likely conditions against a prototype catalog, localizes problem
regions, and produces care recommendations with a veterinary
consultation flag. It can also estimate the animal's age and weight.`,
	Version: pettriage.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.GetConfigPath()
			// No explicit --config and no file at the default path means
			// defaults, not an error.
			if _, err := os.Stat(path); os.IsNotExist(err) {
				cfg = config.Default()
				return nil
			}
		}
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: ~/.config/pet-triage/config.json)")
}

// buildProvider constructs the feature backend from the configuration,
// wrapping it with the Ollama age head when one is configured. The second
// return value releases backend resources.
func buildProvider() (features.Provider, func(), error) {
	var provider features.Provider
	cleanup := func() {}

	switch cfg.Provider.Backend {
	case "http":
		client, err := embedhttp.NewClient(cfg.Provider.URL, cfg.Provider.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedding client: %w", err)
		}
		provider = client
	case "onnx":
		p, err := onnx.NewProvider(cfg.Provider.ModelPath, cfg.Provider.MetadataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load ONNX model: %w", err)
		}
		provider = p
		cleanup = p.Close
	default:
		return nil, nil, fmt.Errorf("unknown provider backend %q", cfg.Provider.Backend)
	}

	if cfg.Provider.OllamaURL != "" && cfg.Provider.OllamaModel != "" {
		ageClient, err := ollamaage.NewClient(cfg.Provider.OllamaURL, cfg.Provider.OllamaModel)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create ollama age client: %w", err)
		}
		provider = features.WithAgePredictor(provider, ageClient)
	}
	return provider, cleanup, nil
}

// buildAnalyzer assembles the full pipeline from the configuration.
func buildAnalyzer() (*pettriage.Analyzer, func(), error) {
	provider, cleanup, err := buildProvider()
	if err != nil {
		return nil, nil, err
	}

	catalogs := catalog.Builtin()
	if cfg.Catalog.Dir != "" {
		catalogs, err = catalog.LoadDir(cfg.Catalog.Dir)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	engineCfg := triage.Config{
		Classifier: classifier.Config{
			SevereThreshold:   cfg.Classifier.SevereThreshold,
			ModerateThreshold: cfg.Classifier.ModerateThreshold,
			MinProbability:    cfg.Classifier.MinProbability,
			DetectThreshold:   cfg.Classifier.DetectThreshold,
			MaxConditions:     cfg.Classifier.MaxConditions,
		},
		Spatial: spatial.Config{
			GridSize:        cfg.Spatial.GridSize,
			TopRegions:      cfg.Spatial.TopRegions,
			ActivationScale: cfg.Spatial.ActivationScale,
		},
		Estimator: agewise.Config{
			AnalysisSize: cfg.Estimator.AnalysisSize,
		},
	}
	return pettriage.NewWithConfig(provider, engineCfg, catalogs), cleanup, nil
}

// parseRequest turns the shared command flags into a triage request.
func parseRequest(part, species, breed string, ageWeight bool) (triage.Request, error) {
	req := triage.Request{
		BodyPart:          types.BodyPart(part),
		Species:           types.Species(species),
		Breed:             breed,
		EstimateAgeWeight: ageWeight,
	}
	if err := req.Validate(); err != nil {
		return triage.Request{}, err
	}
	return req, nil
}
