package ocr

import "context"

// Input encapsulates one preprocessed field region submitted for
// recognition.
type Input struct {
	// ID is a caller-provided identifier echoed back in the Result, used to
	// correlate recognition output with the originating detection.
	ID string
	// Image is the encoded region payload (PNG).
	Image []byte
	// Languages lists trained-data hints for the engine (e.g. "eng").
	Languages []string
	// DPI carries the effective dots-per-inch of the region; zero means
	// unknown.
	DPI int
	// Metadata carries engine-specific variables (e.g. Tesseract's page
	// segmentation mode) without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result is the recognition output for one input region.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Text is the recognized text with surrounding whitespace trimmed;
	// interior spacing is preserved verbatim for the detection audit.
	Text string
	// Confidence is the engine's mean word confidence in [0,1], zero when
	// the engine does not report one.
	Confidence float64
}

// Engine is the OCR provider contract: one region in, one result out.
// Implementations must be safe for concurrent use; the extraction pipeline
// may recognize regions of the same document in parallel.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
