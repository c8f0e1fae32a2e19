package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docuscan/aadhaarkit/fields"
)

func TestClientDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			file.Close()
		}
		json.NewEncoder(w).Encode(map[string]any{
			"detections": []map[string]any{
				{"label": "AADHAR_NUMBER", "confidence": 0.91, "bbox": []float64{10, 20, 110, 40}},
				{"label": "NAME", "confidence": 0.31, "bbox": []float64{10, 60, 110, 80}},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 0.5)
	dets, err := c.Detect(context.Background(), []byte("fake-image"))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("expected 1 detection above threshold, got %d", len(dets))
	}
	if dets[0].Label != fields.AadhaarNumber {
		t.Fatalf("unexpected label: %s", dets[0].Label)
	}
	if dets[0].Box.X2 != 110 {
		t.Fatalf("unexpected bbox: %+v", dets[0].Box)
	}
}

func TestClientDetectErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, 0.5).Detect(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := New(srv.URL, 0.5).Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	// Trailing slashes on the configured base must not break the routes.
	if err := New(srv.URL+"/", 0.5).Health(context.Background()); err != nil {
		t.Fatalf("Health() with trailing slash error = %v", err)
	}
	if err := New(srv.URL+"/missing", 0.5).Health(context.Background()); err == nil {
		t.Fatalf("expected error for missing health endpoint")
	}
}
