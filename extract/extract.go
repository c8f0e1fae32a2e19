// Package extract drives the per-detection pipeline: crop with padding,
// preprocess per field policy, recognize with the field's engine
// configuration, normalize, and assemble the final record plus a detection
// audit. Field-level failures never abort the document: an unreadable
// region simply yields a null value while its raw OCR text stays in the
// audit for diagnosis.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/docuscan/aadhaarkit/detect"
	"github.com/docuscan/aadhaarkit/fields"
	"github.com/docuscan/aadhaarkit/observability"
	"github.com/docuscan/aadhaarkit/ocr"
	"github.com/docuscan/aadhaarkit/preprocess"
)

// DefaultMargin is the crop padding in pixels applied on each side of a
// detection box before clamping, so glyph edges on the detector's boundary
// survive the crop.
const DefaultMargin = 5

// Record maps canonical field names to normalized values. A nil value
// means the field was detected but its text could not be recovered; a
// missing key means the field was never detected. Both are normal
// outcomes, not errors.
type Record map[string]*string

// AuditEntry preserves one detection and its raw OCR text, in detection
// order, regardless of whether normalization succeeded. Downstream callers
// use it for debugging and confidence-based filtering.
type AuditEntry struct {
	Label      fields.Label `json:"label"`
	Confidence float64      `json:"confidence"`
	Box        detect.Box   `json:"bbox"`
	Text       string       `json:"text"`
}

// Extractor turns detector output into a validated field record. The OCR
// engine handle is injected once and reused across calls; the extractor
// itself holds no per-document state and is safe for concurrent use.
type Extractor struct {
	engine      ocr.Engine
	margin      int
	concurrency int
	languages   []string
	log         observability.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMargin overrides the crop padding in pixels.
func WithMargin(px int) Option {
	return func(e *Extractor) { e.margin = px }
}

// WithConcurrency sets how many detections are processed in parallel.
// Values below 2 keep processing sequential.
func WithConcurrency(n int) Option {
	return func(e *Extractor) { e.concurrency = n }
}

// WithLanguages sets the trained-data hints passed to the engine.
func WithLanguages(langs ...string) Option {
	return func(e *Extractor) { e.languages = append([]string(nil), langs...) }
}

// WithLogger sets the pipeline logger.
func WithLogger(l observability.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// New builds an extractor around an OCR engine.
func New(engine ocr.Engine, opts ...Option) *Extractor {
	e := &Extractor{
		engine:      engine,
		margin:      DefaultMargin,
		concurrency: 1,
		log:         observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// region is the outcome of processing a single detection.
type region struct {
	dropped bool    // degenerate crop, omitted from record and audit
	value   *string // nil when normalization failed
	raw     string  // verbatim OCR text for the audit
	err     error   // only context errors abort the call
}

// Extract runs the pipeline over all detections in input order and returns
// the assembled record plus the detection audit. When the same label is
// detected more than once the last detection wins; the audit keeps every
// entry so callers can re-rank by confidence.
func (e *Extractor) Extract(ctx context.Context, img image.Image, detections []detect.Detection) (Record, []AuditEntry, error) {
	if img == nil {
		return nil, nil, errors.New("extract: nil image")
	}

	results := make([]region, len(detections))
	if e.concurrency > 1 && len(detections) > 1 {
		if err := e.processParallel(ctx, img, detections, results); err != nil {
			return nil, nil, err
		}
	} else {
		for i, det := range detections {
			results[i] = e.process(ctx, img, i, det)
		}
	}

	record := make(Record)
	audit := make([]AuditEntry, 0, len(detections))
	for i, det := range detections {
		res := results[i]
		if res.err != nil {
			return nil, nil, res.err
		}
		if res.dropped {
			continue
		}
		record[fields.Lookup(det.Label).Canonical] = res.value
		audit = append(audit, AuditEntry{
			Label:      det.Label,
			Confidence: det.Confidence,
			Box:        det.Box,
			Text:       res.raw,
		})
	}
	return record, audit, nil
}

func (e *Extractor) processParallel(ctx context.Context, img image.Image, detections []detect.Detection, results []region) error {
	pool, err := ants.NewPool(e.concurrency)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range detections {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = e.process(ctx, img, i, detections[i])
		})
		if submitErr != nil {
			wg.Done()
			results[i] = region{err: fmt.Errorf("submit detection %d: %w", i, submitErr)}
		}
	}
	wg.Wait()
	return nil
}

// process runs crop -> preprocess -> OCR -> normalize for one detection.
func (e *Extractor) process(ctx context.Context, img image.Image, index int, det detect.Detection) region {
	if err := ctx.Err(); err != nil {
		return region{err: err}
	}

	crop, ok := detect.Crop(img, det.Box, e.margin)
	if !ok {
		e.log.Debug("dropping degenerate detection",
			observability.String("label", string(det.Label)),
			observability.Int("index", index))
		return region{dropped: true}
	}

	spec := fields.Lookup(det.Label)
	mode := preprocess.Gentle
	if spec.Enhance {
		mode = preprocess.Enhanced
	}
	prepared := preprocess.Run(crop, mode)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return region{err: fmt.Errorf("encode region %d: %w", index, err)}
	}

	opts := ocr.ConfigFor(spec)
	if len(e.languages) > 0 {
		opts = append(opts, ocr.WithLanguages(e.languages...))
	}
	in := ocr.NewInput(index, det.Label, buf.Bytes(), opts...)

	res, err := e.engine.Recognize(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return region{err: ctx.Err()}
		}
		// A failed recognition on one region must not abort the rest of
		// the document; the field stays null and the audit records the
		// empty text.
		e.log.Warn("ocr failed for region",
			observability.String("label", string(det.Label)),
			observability.Int("index", index),
			observability.Error("err", err))
		return region{}
	}

	raw := res.Text
	if value, ok := spec.Normalize(raw); ok {
		return region{value: &value, raw: raw}
	}
	e.log.Debug("unparseable field text",
		observability.String("label", string(det.Label)),
		observability.String("raw", raw))
	return region{raw: raw}
}
