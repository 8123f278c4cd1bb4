// Package onnx is a local feature provider running an ONNX embedding model
// through onnxruntime. The model is described by a metadata JSON file next
// to it: input image size, embedding dim, patch grid and whether an age
// output head exists.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/types"
)

// Metadata describes the shapes of a triage embedding model.
type Metadata struct {
	ImageSize    int  `json:"image_size"`
	EmbeddingDim int  `json:"embedding_dim"`
	PatchGrid    int  `json:"patch_grid"`
	AgeOutput    bool `json:"age_output"`
}

// Provider runs a local ONNX session. The session's tensors are reused
// across calls, so a mutex serializes inference.
type Provider struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	globalTensor *ort.Tensor[float32]
	patchTensor  *ort.Tensor[float32]
	ageTensor    *ort.Tensor[float32]
}

// NewProvider loads the model and its metadata and prepares the session.
func NewProvider(modelPath, metadataPath string) (*Provider, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaFile, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if meta.ImageSize <= 0 || meta.EmbeddingDim <= 0 || meta.PatchGrid <= 0 {
		return nil, fmt.Errorf("metadata has non-positive shape values")
	}

	inputTensor, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(meta.ImageSize), int64(meta.ImageSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	globalTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(meta.EmbeddingDim)))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create global tensor: %w", err)
	}

	patches := int64(meta.PatchGrid * meta.PatchGrid)
	patchTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, patches, int64(meta.EmbeddingDim)))
	if err != nil {
		inputTensor.Destroy()
		globalTensor.Destroy()
		return nil, fmt.Errorf("failed to create patch tensor: %w", err)
	}

	inputNames := []string{"image"}
	outputNames := []string{"global", "patches"}
	outputs := []ort.ArbitraryTensor{globalTensor, patchTensor}

	var ageTensor *ort.Tensor[float32]
	if meta.AgeOutput {
		ageTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
		if err != nil {
			inputTensor.Destroy()
			globalTensor.Destroy()
			patchTensor.Destroy()
			return nil, fmt.Errorf("failed to create age tensor: %w", err)
		}
		outputNames = append(outputNames, "age_months")
		outputs = append(outputs, ageTensor)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		inputNames, outputNames,
		[]ort.ArbitraryTensor{inputTensor}, outputs,
		nil)
	if err != nil {
		inputTensor.Destroy()
		globalTensor.Destroy()
		patchTensor.Destroy()
		if ageTensor != nil {
			ageTensor.Destroy()
		}
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Provider{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		globalTensor: globalTensor,
		patchTensor:  patchTensor,
		ageTensor:    ageTensor,
	}, nil
}

// ExtractFeatures runs inference and copies the outputs into a FeatureSet.
func (p *Provider) ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.run(ctx, img); err != nil {
		return types.FeatureSet{}, err
	}

	dim := p.meta.EmbeddingDim
	globalData := p.globalTensor.GetData()
	global := make([]float64, dim)
	for i := 0; i < dim && i < len(globalData); i++ {
		global[i] = float64(globalData[i])
	}

	patchCount := p.meta.PatchGrid * p.meta.PatchGrid
	patchData := p.patchTensor.GetData()
	patches := make([][]float64, patchCount)
	for pi := 0; pi < patchCount; pi++ {
		row := make([]float64, dim)
		for d := 0; d < dim; d++ {
			if idx := pi*dim + d; idx < len(patchData) {
				row[d] = float64(patchData[idx])
			}
		}
		patches[pi] = row
	}

	return types.FeatureSet{Global: global, Patches: patches}, nil
}

// AgeCapable reports whether the loaded model has an age output head.
func (p *Provider) AgeCapable() bool { return p.meta.AgeOutput }

// PredictAgeMonths runs inference and reads the age head.
func (p *Provider) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	if p.ageTensor == nil {
		return 0, features.ErrAgeUnsupported
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.run(ctx, img); err != nil {
		return 0, err
	}
	data := p.ageTensor.GetData()
	if len(data) == 0 {
		return 0, features.ErrAgeUnsupported
	}
	return float64(data[0]), nil
}

func (p *Provider) run(ctx context.Context, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	copy(p.inputTensor.GetData(), preprocess(img, p.meta.ImageSize))
	if err := p.session.Run(); err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	return nil
}

// preprocess resizes the image and lays it out as normalized CHW float32.
func preprocess(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]float32, 3*width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*width + x
			data[idx] = float32(r) / 65535.0
			data[width*height+idx] = float32(g) / 65535.0
			data[2*width*height+idx] = float32(b) / 65535.0
		}
	}
	return data
}

// Close releases the session and its tensors.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inputTensor != nil {
		p.inputTensor.Destroy()
	}
	if p.globalTensor != nil {
		p.globalTensor.Destroy()
	}
	if p.patchTensor != nil {
		p.patchTensor.Destroy()
	}
	if p.ageTensor != nil {
		p.ageTensor.Destroy()
	}
	if p.session != nil {
		p.session.Destroy()
	}
	ort.DestroyEnvironment()
}
