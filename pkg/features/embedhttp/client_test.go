package embedhttp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/menta2k/pet-triage/pkg/features"
)

func smallImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

// embedServer fakes the embedding endpoint, optionally advertising and
// serving an age head.
func embedServer(t *testing.T, withAge bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/capabilities", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"age": withAge})
	})
	mux.HandleFunc("/v1/embed-image", func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := base64.StdEncoding.DecodeString(req.Image); err != nil {
			http.Error(w, "image is not base64", http.StatusBadRequest)
			return
		}

		resp := embedResponse{
			Global:  []float64{0.1, 0.2, 0.3},
			Patches: [][]float64{{1, 0}, {0, 1}},
		}
		if req.WithAge && withAge {
			months := 42.0
			resp.AgeMonths = &months
		}
		json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(mux)
}

func TestExtractFeatures(t *testing.T) {
	server := embedServer(t, false)
	defer server.Close()

	client, err := NewClient(server.URL, "test-model")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	fs, err := client.ExtractFeatures(context.Background(), smallImage())
	if err != nil {
		t.Fatalf("ExtractFeatures failed: %v", err)
	}
	if len(fs.Global) != 3 {
		t.Errorf("Expected 3-dim global vector, got %d", len(fs.Global))
	}
	if len(fs.Patches) != 2 {
		t.Errorf("Expected 2 patches, got %d", len(fs.Patches))
	}
}

func TestAgeCapabilityProbe(t *testing.T) {
	server := embedServer(t, true)
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if !client.AgeCapable() {
		t.Error("Expected age capability from probe")
	}

	months, err := client.PredictAgeMonths(context.Background(), smallImage())
	if err != nil {
		t.Fatalf("PredictAgeMonths failed: %v", err)
	}
	if months != 42 {
		t.Errorf("Expected 42 months, got %f", months)
	}
}

func TestNoAgeCapability(t *testing.T) {
	server := embedServer(t, false)
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.AgeCapable() {
		t.Error("Expected no age capability")
	}

	_, err = client.PredictAgeMonths(context.Background(), smallImage())
	if !errors.Is(err, features.ErrAgeUnsupported) {
		t.Errorf("Expected ErrAgeUnsupported, got %v", err)
	}
}

func TestProbeFailureNotFatal(t *testing.T) {
	// No server behind this address; the probe must fail silently.
	client, err := NewClient("http://127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("NewClient must not fail on probe error: %v", err)
	}
	if client.AgeCapable() {
		t.Error("Failed probe must leave age capability off")
	}
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.ExtractFeatures(context.Background(), smallImage())
	if err == nil {
		t.Fatal("Expected error for server failure")
	}
}

func TestEmptyGlobalVectorRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.ExtractFeatures(context.Background(), smallImage()); err == nil {
		t.Error("Expected error for empty global vector")
	}
}
