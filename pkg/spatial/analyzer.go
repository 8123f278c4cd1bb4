// Package spatial localizes which regions of an image are most active and
// derives five continuous visual indicators from the statistical shape of
// patch activations.
package spatial

import (
	"fmt"
	"math"
	"sort"

	"github.com/menta2k/pet-triage/pkg/types"
)

// Config holds configuration for spatial analysis.
type Config struct {
	// GridSize is the patch grid edge; the patch matrix is expected to
	// hold GridSize*GridSize rows in raster order.
	GridSize int
	// TopRegions is how many high-activation regions to report.
	TopRegions int
	// ActivationScale normalizes raw patch activations into [0,1]
	// region severities.
	ActivationScale float64
}

// DefaultConfig returns the standard 16x16 grid configuration.
func DefaultConfig() Config {
	return Config{
		GridSize:        16,
		TopRegions:      5,
		ActivationScale: 10,
	}
}

// Scorer maps a full activation array to visual-feature scores. The default
// formulas are heuristic, so they sit behind this function type to stay
// swappable independently of the rest of the analyzer.
type Scorer func(activations []float64) types.VisualFeatures

// Analyzer turns a patch feature matrix into regions and visual features.
type Analyzer struct {
	config Config
	scorer Scorer
}

// New creates an analyzer with the default configuration and scorer.
func New() *Analyzer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an analyzer with a custom configuration.
func NewWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config, scorer: ScoreActivations}
}

// SetScorer replaces the visual-feature scoring function.
func (a *Analyzer) SetScorer(scorer Scorer) {
	if scorer != nil {
		a.scorer = scorer
	}
}

// Analyze computes per-patch activation strengths, reports the strongest
// regions with human-readable locations, and scores the five visual
// features. An empty patch matrix yields an empty, all-zero analysis
// rather than an error.
func (a *Analyzer) Analyze(patches [][]float64) types.SpatialAnalysis {
	activations := make([]float64, len(patches))
	for i, patch := range patches {
		activations[i] = l2Norm(patch)
	}

	return types.SpatialAnalysis{
		Regions:        a.topRegions(activations),
		VisualFeatures: a.scorer(activations),
	}
}

func (a *Analyzer) topRegions(activations []float64) []types.Region {
	if len(activations) == 0 {
		return nil
	}

	indices := make([]int, len(activations))
	for i := range indices {
		indices[i] = i
	}
	// Ties break toward the lower patch index.
	sort.SliceStable(indices, func(i, j int) bool {
		return activations[indices[i]] > activations[indices[j]]
	})

	n := a.config.TopRegions
	if n > len(indices) {
		n = len(indices)
	}

	grid := a.gridFor(len(activations))
	regions := make([]types.Region, 0, n)
	for _, idx := range indices[:n] {
		regions = append(regions, types.Region{
			Location: locationLabel(idx, grid),
			Severity: clamp01(activations[idx] / a.config.ActivationScale),
		})
	}
	return regions
}

// gridFor prefers the configured grid size but falls back to the nearest
// square when the patch count disagrees, so a malformed matrix still maps
// to sensible labels.
func (a *Analyzer) gridFor(patchCount int) int {
	grid := a.config.GridSize
	if grid > 0 && grid*grid == patchCount {
		return grid
	}
	if g := int(math.Round(math.Sqrt(float64(patchCount)))); g > 0 {
		return g
	}
	return 1
}

var (
	rowThirds = [3]string{"upper", "middle", "lower"}
	colThirds = [3]string{"left", "center", "right"}
)

// locationLabel maps a flat raster index to "{row-third} {col-third}".
func locationLabel(index, grid int) string {
	row := index / grid
	col := index % grid
	return fmt.Sprintf("%s %s", rowThirds[third(row, grid)], colThirds[third(col, grid)])
}

func third(pos, grid int) int {
	t := pos * 3 / grid
	if t > 2 {
		t = 2
	}
	return t
}

// ScoreActivations is the default visual-feature scorer. The formulas are
// ad hoc mappings from activation statistics to indicator scores; all five
// are 0 for an empty or degenerate activation array.
func ScoreActivations(activations []float64) types.VisualFeatures {
	if len(activations) == 0 {
		return types.VisualFeatures{}
	}

	max := activations[0]
	var sum float64
	for _, v := range activations {
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(activations))
	if max == 0 || mean == 0 {
		return types.VisualFeatures{}
	}

	var variance float64
	for _, v := range activations {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(activations))

	lesions := (max/mean - 1) * 0.5
	if lesions < 0 {
		lesions = 0
	}

	return types.VisualFeatures{
		Redness:      clamp01(mean / max * 0.7),
		Inflammation: clamp01(mean / max * 0.8),
		HairLoss:     clamp01(variance / max * 0.6),
		Lesions:      clamp01(lesions),
		Scaling:      clamp01(variance / mean * 0.7),
	}
}

func l2Norm(vec []float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
