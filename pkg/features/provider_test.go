package features

import (
	"context"
	"image"
	"testing"

	"github.com/menta2k/pet-triage/pkg/types"
)

type stubProvider struct{}

func (stubProvider) ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error) {
	return types.FeatureSet{Global: []float64{1, 2, 3}}, nil
}

func (stubProvider) AgeCapable() bool { return false }

func (stubProvider) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	return 0, ErrAgeUnsupported
}

type stubAge struct{ months float64 }

func (s stubAge) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	return s.months, nil
}

func TestWithAgePredictor(t *testing.T) {
	wrapped := WithAgePredictor(stubProvider{}, stubAge{months: 30})

	if !wrapped.AgeCapable() {
		t.Error("Wrapped provider must report age capability")
	}

	months, err := wrapped.PredictAgeMonths(context.Background(), nil)
	if err != nil {
		t.Fatalf("PredictAgeMonths failed: %v", err)
	}
	if months != 30 {
		t.Errorf("Expected 30 months from the grafted head, got %f", months)
	}

	// Feature extraction still goes through the base provider.
	fs, err := wrapped.ExtractFeatures(context.Background(), nil)
	if err != nil {
		t.Fatalf("ExtractFeatures failed: %v", err)
	}
	if len(fs.Global) != 3 {
		t.Errorf("Expected base provider features, got %v", fs.Global)
	}
}
