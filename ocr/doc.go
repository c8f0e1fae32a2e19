package ocr

// Package ocr defines the contract with the character-recognition engine
// and the per-field engine configuration. The interface is intentionally
// small and provider-agnostic: the pipeline only shapes the input image and
// the engine tuning (segmentation mode, character whitelist), never the
// engine internals, so local Tesseract builds and remote OCR services plug
// in without leaking provider concerns into callers.
