// Package server exposes the extraction pipeline over HTTP: a multipart
// upload endpoint returning the field record with the detection audit, plus
// health and info endpoints. Field-level nulls in a response are a normal
// outcome; only infrastructure failures (detector down, undecodable image)
// surface as request errors.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/docuscan/aadhaarkit/config"
	"github.com/docuscan/aadhaarkit/detect"
	"github.com/docuscan/aadhaarkit/extract"
	"github.com/docuscan/aadhaarkit/observability"
	"github.com/docuscan/aadhaarkit/ocr"
)

// Version reported by the info and health endpoints.
const Version = "1.0.0"

// HealthChecker is implemented by collaborators (detector, OCR engine)
// that can probe their backing service or install.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server routes extraction requests to the pipeline.
type Server struct {
	cfg       *config.Config
	detector  detect.Detector
	engine    ocr.Engine
	extractor *extract.Extractor
	log       observability.Logger
	handler   http.Handler
}

// New wires the handler around an injected detector, OCR engine and
// extractor. The loaded model handles live with their owners; the server
// never constructs or reloads them.
func New(cfg *config.Config, detector detect.Detector, engine ocr.Engine, extractor *extract.Extractor, log observability.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		detector:  detector,
		engine:    engine,
		extractor: extractor,
		log:       log,
	}
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	s.handler = handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	return s
}

// Handler returns the HTTP handler for the service.
func (s *Server) Handler() http.Handler { return s.handler }

// ExtractionResponse is the extract endpoint's reply.
type ExtractionResponse struct {
	Success        bool                 `json:"success"`
	Data           extract.Record       `json:"data"`
	Detections     []extract.AuditEntry `json:"detections"`
	ProcessingTime float64              `json:"processing_time"`
	Message        string               `json:"message"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Detector string `json:"detector"`
	OCR      string `json:"ocr"`
	Version  string `json:"version"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "Aadhaar card field extraction API",
		"version":      Version,
		"health_check": "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Detector: "ok", OCR: "ok", Version: Version}
	if hc, ok := s.detector.(HealthChecker); ok {
		if err := hc.Health(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Detector = err.Error()
		}
	}
	if hc, ok := s.engine.(HealthChecker); ok {
		if err := hc.Health(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.OCR = err.Error()
		}
	}
	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.log.With(observability.String("request_id", uuid.NewString()))

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !s.cfg.AllowedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid file format, allowed: %v", s.cfg.AllowedExtensions))
		return
	}

	limit := s.cfg.MaxFileSizeBytes()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	if int64(len(data)) > limit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file exceeds maximum size of %dMB", s.cfg.MaxFileSizeMB))
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode image, file may be corrupted")
		return
	}

	detections, err := s.detector.Detect(r.Context(), data)
	if err != nil {
		log.Error("detection failed", observability.Error("err", err))
		writeError(w, http.StatusBadGateway, "detection service unavailable")
		return
	}

	record, audit, err := s.extractor.Extract(r.Context(), img, detections)
	if err != nil {
		log.Error("extraction failed", observability.Error("err", err))
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	elapsed := time.Since(start).Seconds()
	message := "data extracted successfully"
	if len(audit) == 0 {
		message = "no fields detected"
	}
	log.Info("processed upload",
		observability.String("filename", header.Filename),
		observability.Int("detections", len(audit)),
		observability.Float64("seconds", elapsed))

	writeJSON(w, http.StatusOK, ExtractionResponse{
		Success:        true,
		Data:           record,
		Detections:     audit,
		ProcessingTime: elapsed,
		Message:        message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
