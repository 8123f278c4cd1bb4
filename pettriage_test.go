package pettriage

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/triage"
	"github.com/menta2k/pet-triage/pkg/types"
)

// stubProvider returns features aligned with a fixed catalog prototype.
type stubProvider struct {
	global []float64
}

func (s *stubProvider) ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error) {
	return types.FeatureSet{Global: s.global}, nil
}

func (s *stubProvider) AgeCapable() bool { return false }

func (s *stubProvider) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	return 0, features.ErrAgeUnsupported
}

func healthyPawProvider() *stubProvider {
	cat := catalog.Builtin()[types.BodyPartPaw]
	return &stubProvider{global: cat.Healthy().Features}
}

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{190, 160, 130, 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	analyzer := New(healthyPawProvider())
	if analyzer == nil {
		t.Fatal("New() returned nil")
	}
}

func TestAnalyze(t *testing.T) {
	analyzer := New(healthyPawProvider())

	report, err := analyzer.Analyze(context.Background(), sampleImage(), triage.Request{
		BodyPart: types.BodyPartPaw,
		Species:  types.SpeciesDog,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Detected {
		t.Error("Healthy paw must not detect a condition")
	}
	if report.BodyPart != types.BodyPartPaw || report.Species != types.SpeciesDog {
		t.Errorf("Report echoes wrong request: %s/%s", report.Species, report.BodyPart)
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paw.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, sampleImage(), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	analyzer := New(healthyPawProvider())
	report, err := analyzer.AnalyzeFile(context.Background(), path, triage.Request{
		BodyPart: types.BodyPartPaw,
		Species:  types.SpeciesDog,
	})
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if len(report.Recommendations) == 0 {
		t.Error("Expected recommendations in report")
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	analyzer := New(healthyPawProvider())

	_, err := analyzer.AnalyzeFile(context.Background(), "/nonexistent/paw.jpg", triage.Request{
		BodyPart: types.BodyPartPaw,
		Species:  types.SpeciesDog,
	})
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAnalyzeFileTooSmall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	tiny := image.NewRGBA(image.Rect(0, 0, 16, 16))
	if err := jpeg.Encode(f, tiny, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	analyzer := New(healthyPawProvider())
	_, err = analyzer.AnalyzeFile(context.Background(), path, triage.Request{
		BodyPart: types.BodyPartPaw,
		Species:  types.SpeciesDog,
	})
	if err == nil {
		t.Error("Expected validation error for undersized image")
	}
}

func TestAnalysisUnavailable(t *testing.T) {
	analyzer := NewWithConfig(failingProvider{}, triage.DefaultConfig(), nil)

	_, err := analyzer.Analyze(context.Background(), sampleImage(), triage.Request{
		BodyPart: types.BodyPartSkin,
		Species:  types.SpeciesCat,
	})
	if !errors.Is(err, triage.ErrAnalysisUnavailable) {
		t.Errorf("Expected ErrAnalysisUnavailable, got %v", err)
	}
}

type failingProvider struct{}

func (failingProvider) ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error) {
	return types.FeatureSet{}, errors.New("backend down")
}

func (failingProvider) AgeCapable() bool { return false }

func (failingProvider) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	return 0, features.ErrAgeUnsupported
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %s, want %s", GetVersion(), Version)
	}
}
