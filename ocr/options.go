package ocr

import (
	"fmt"
	"strconv"

	"github.com/docuscan/aadhaarkit/fields"
)

// InputOption mutates an OCR input before submission.
type InputOption func(*Input)

// WithLanguages sets trained-data language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithTesseractPSM sets the page segmentation mode variable for Tesseract.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_pageseg_mode"] = strconv.Itoa(mode)
	}
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_char_whitelist"] = chars
	}
}

// ConfigFor translates a field's extraction policy into engine options:
// the segmentation mode matching the label's expected text layout, plus a
// character whitelist for fields with known-numeric content. Free-text
// fields stay unrestricted so legitimate characters are not dropped.
func ConfigFor(spec fields.Spec) []InputOption {
	opts := []InputOption{WithTesseractPSM(spec.PSM)}
	if spec.Whitelist != "" {
		opts = append(opts, WithTesseractWhitelist(spec.Whitelist))
	}
	return opts
}

// NewInput builds the OCR input for the index-th detection of a document.
// The generated ID is stable for a (index, label) pair to simplify
// correlation with the detection audit.
func NewInput(index int, label fields.Label, png []byte, opts ...InputOption) Input {
	in := Input{
		ID:    fmt.Sprintf("det-%d-%s", index, label),
		Image: png,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
