// Package features defines the feature-provider boundary: given an image,
// a provider returns the global feature vector and patch feature matrix
// the triage pipeline runs on, and may optionally predict an age in months
// directly.
package features

import (
	"context"
	"errors"
	"image"

	"github.com/menta2k/pet-triage/pkg/types"
)

// ErrAgeUnsupported is returned by PredictAgeMonths when the underlying
// backend has no age head.
var ErrAgeUnsupported = errors.New("backend does not support age prediction")

// Provider extracts feature sets from images. Implementations may call a
// remote inference backend; all methods honor the context.
type Provider interface {
	ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error)
	// AgeCapable reports whether PredictAgeMonths is expected to work.
	AgeCapable() bool
	// PredictAgeMonths returns a raw, uncalibrated age in months.
	PredictAgeMonths(ctx context.Context, img image.Image) (float64, error)
}

// AgePredictor is a standalone age head, used to graft age prediction onto
// a provider whose embedding backend has none.
type AgePredictor interface {
	PredictAgeMonths(ctx context.Context, img image.Image) (float64, error)
}

type withAge struct {
	Provider
	age AgePredictor
}

// WithAgePredictor wraps a provider so age predictions come from a
// separate backend, leaving feature extraction untouched.
func WithAgePredictor(p Provider, age AgePredictor) Provider {
	return &withAge{Provider: p, age: age}
}

func (w *withAge) AgeCapable() bool { return true }

func (w *withAge) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	return w.age.PredictAgeMonths(ctx, img)
}
