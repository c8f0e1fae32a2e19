// Package tesseract implements the OCR engine contract with the gosseract
// client. A fresh client is created per recognition so the engine is safe
// for concurrent use; the handle itself carries no mutable state across
// calls.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/docuscan/aadhaarkit/ocr"
)

// Engine recognizes text using a local Tesseract installation.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed OCR engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single region.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		InputID:    in.ID,
		Text:       strings.TrimSpace(text),
		Confidence: meanConfidence(c),
	}, nil
}

// Health verifies the local Tesseract install by querying its trained
// language data. A host without the library or without any traineddata
// files is reported before the first extraction request hits it.
func (e *Engine) Health(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	langs, err := c.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("tesseract unavailable: %w", err)
	}
	if len(langs) == 0 {
		return errors.New("tesseract has no trained language data")
	}
	return nil
}

// meanConfidence averages word confidences when the engine reports them.
func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
