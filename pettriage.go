// Package pettriage turns a single pet-anatomy photograph into a structured
// veterinary triage report: which conditions are likely present, where on
// the image they concentrate, how urgent they are, what the owner should
// do, and whether a veterinarian visit is warranted. It can also estimate
// the animal's age and weight from the same photo.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		pettriage "github.com/menta2k/pet-triage"
//		"github.com/menta2k/pet-triage/pkg/features/embedhttp"
//		"github.com/menta2k/pet-triage/pkg/triage"
//		"github.com/menta2k/pet-triage/pkg/types"
//	)
//
//	func main() {
//		provider, err := embedhttp.NewClient("http://localhost:8080", "")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		analyzer := pettriage.New(provider)
//		report, err := analyzer.AnalyzeFile(context.Background(), "paw.jpg", triage.Request{
//			BodyPart:          types.BodyPartPaw,
//			Species:           types.SpeciesDog,
//			Breed:             "Labrador Retriever",
//			EstimateAgeWeight: true,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("detected=%v confidence=%.2f consult=%v\n",
//			report.Detected, report.Confidence, report.VeterinaryConsultation)
//		for _, rec := range report.Recommendations {
//			fmt.Println(" -", rec)
//		}
//	}
//
// The pipeline consists of five components:
//
//  1. Features (pkg/features): extracts the global feature vector and patch
//     feature matrix, via an HTTP embedding server or a local ONNX model
//  2. Classifier (pkg/classifier): zero-shot similarity ranking against the
//     per-body-part prototype catalogs (pkg/catalog)
//  3. Spatial (pkg/spatial): region localization and visual indicators
//  4. Policy (pkg/policy): care recommendations and the consultation flag
//  5. Agewise (pkg/agewise): heuristic age/weight estimation and model age
//     calibration
//
// Classification is zero-shot: conditions are recognized by cosine
// similarity to catalog prototypes rather than a trained classification
// head, so catalogs can be swapped (pkg/catalog JSON files) without any
// retraining or code change.
package pettriage

import (
	"context"
	"fmt"
	"image"

	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/imageio"
	"github.com/menta2k/pet-triage/pkg/triage"
	"github.com/menta2k/pet-triage/pkg/types"
)

// Version of the pet-triage library
const Version = "1.0.0"

// Analyzer provides a high-level interface over the triage pipeline.
type Analyzer struct {
	engine *triage.Engine
	loader *imageio.Loader
}

// New creates an Analyzer with the built-in catalogs and default
// configuration.
func New(provider features.Provider) *Analyzer {
	return &Analyzer{
		engine: triage.NewEngine(provider),
		loader: imageio.New(),
	}
}

// NewWithConfig creates an Analyzer with custom component configuration
// and catalogs.
func NewWithConfig(provider features.Provider, cfg triage.Config, catalogs map[types.BodyPart]*catalog.Catalog) *Analyzer {
	return &Analyzer{
		engine: triage.NewEngineWithConfig(provider, cfg, catalogs),
		loader: imageio.New(),
	}
}

// Analyze runs the triage pipeline on an already-decoded image.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image, req triage.Request) (*types.TriageReport, error) {
	return a.engine.Analyze(ctx, img, req)
}

// AnalyzeFile loads an image from a file path or URL, validates it, and
// runs the triage pipeline.
func (a *Analyzer) AnalyzeFile(ctx context.Context, source string, req triage.Request) (*types.TriageReport, error) {
	img, err := a.loader.Load(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if err := a.loader.Validate(img); err != nil {
		return nil, fmt.Errorf("image validation failed: %w", err)
	}
	return a.engine.Analyze(ctx, img, req)
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
