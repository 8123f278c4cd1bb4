// Package triage wires the pipeline together: feature extraction, the
// zero-shot classifier and spatial analyzer running in parallel, the
// policy layer, and the optional age/weight estimate, producing one
// TriageReport per request.
package triage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/pet-triage/pkg/agewise"
	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/classifier"
	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/policy"
	"github.com/menta2k/pet-triage/pkg/spatial"
	"github.com/menta2k/pet-triage/pkg/types"
)

// ErrAnalysisUnavailable marks the one unrecoverable failure in the
// pipeline: the feature backend could not produce features, so no
// meaningful classification can proceed. Everything else degrades instead
// of failing.
var ErrAnalysisUnavailable = errors.New("analysis unavailable")

// Request describes one triage analysis.
type Request struct {
	BodyPart          types.BodyPart
	Species           types.Species
	Breed             string // optional free-text hint
	EstimateAgeWeight bool
}

// Validate checks the request before any work starts.
func (r Request) Validate() error {
	switch r.Species {
	case types.SpeciesCat, types.SpeciesDog:
	default:
		return fmt.Errorf("unknown species %q", r.Species)
	}
	for _, p := range types.BodyParts() {
		if r.BodyPart == p {
			return nil
		}
	}
	return fmt.Errorf("unknown body part %q", r.BodyPart)
}

// Engine runs the triage pipeline. It is safe for concurrent use: the
// catalogs are read-only and every derived structure belongs to a single
// request.
type Engine struct {
	provider    features.Provider
	classifiers map[types.BodyPart]*classifier.Classifier
	policies    map[types.BodyPart]*policy.Policy
	spatial     *spatial.Analyzer
	estimator   *agewise.Estimator
}

// Config bundles the component configurations for an engine.
type Config struct {
	Classifier classifier.Config
	Spatial    spatial.Config
	Estimator  agewise.Config
}

// DefaultConfig returns the standard component configurations.
func DefaultConfig() Config {
	return Config{
		Classifier: classifier.DefaultConfig(),
		Spatial:    spatial.DefaultConfig(),
		Estimator:  agewise.DefaultConfig(),
	}
}

// NewEngine creates an engine over the built-in catalogs.
func NewEngine(provider features.Provider) *Engine {
	return NewEngineWithConfig(provider, DefaultConfig(), catalog.Builtin())
}

// NewEngineWithConfig creates an engine with custom configuration and
// catalogs. Body parts missing from the map fall back to the built-in
// catalog.
func NewEngineWithConfig(provider features.Provider, cfg Config, catalogs map[types.BodyPart]*catalog.Catalog) *Engine {
	builtin := catalog.Builtin()

	e := &Engine{
		provider:    provider,
		classifiers: make(map[types.BodyPart]*classifier.Classifier),
		policies:    make(map[types.BodyPart]*policy.Policy),
		spatial:     spatial.NewWithConfig(cfg.Spatial),
		estimator:   agewise.NewWithConfig(cfg.Estimator),
	}
	for _, part := range types.BodyParts() {
		cat, ok := catalogs[part]
		if !ok {
			cat = builtin[part]
		}
		e.classifiers[part] = classifier.NewWithConfig(cat, cfg.Classifier)
		e.policies[part] = policy.For(part, cat.HealthyCategory)
	}
	return e
}

// Analyze runs the full pipeline for one image and returns the report.
// The returned error wraps ErrAnalysisUnavailable when feature extraction
// fails; every other problem degrades inside the report.
func (e *Engine) Analyze(ctx context.Context, img image.Image, req Request) (*types.TriageReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	featureSet, err := e.provider.ExtractFeatures(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	// Classifier and spatial analyzer only read the extracted features,
	// so they run concurrently with no locking.
	var classification types.Classification
	var spatialResult types.SpatialAnalysis

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		classification = e.classifiers[req.BodyPart].Classify(featureSet, req.Breed)
		return nil
	})
	g.Go(func() error {
		spatialResult = e.spatial.Analyze(featureSet.Patches)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pol := e.policies[req.BodyPart]
	report := &types.TriageReport{
		BodyPart:               req.BodyPart,
		Species:                req.Species,
		Detected:               classification.Detected,
		Confidence:             classification.Confidence,
		Conditions:             classification.Conditions,
		Spatial:                spatialResult,
		Recommendations:        pol.Recommendations(classification.Conditions, spatialResult.VisualFeatures, req.Breed),
		VeterinaryConsultation: pol.NeedsVeterinaryConsultation(classification.Conditions, spatialResult.VisualFeatures),
	}

	if req.EstimateAgeWeight {
		age, weight := e.estimateAgeWeight(ctx, img, req)
		report.Age = age
		report.Weight = weight
	}
	return report, nil
}

// estimateAgeWeight prefers the model age head when the provider has one,
// calibrating its raw output; the weight estimate always comes from the
// image heuristics. Estimation never fails the request.
func (e *Engine) estimateAgeWeight(ctx context.Context, img image.Image, req Request) (*types.AgeEstimate, *types.WeightEstimate) {
	est := e.estimator.Estimate(img, req.Species, req.Breed)
	age, weight := est.Age, est.Weight

	if e.provider.AgeCapable() {
		raw, err := e.provider.PredictAgeMonths(ctx, img)
		if err != nil {
			log.Printf("model age prediction failed, using heuristic estimate: %v", err)
		} else if months := agewise.CalibrateAgeMonths(req.Species, raw, req.Breed); months > 0 {
			age = agewise.AgeFromMonths(req.Species, months)
		}
	}
	return &age, &weight
}
