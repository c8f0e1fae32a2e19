// Package detect defines the contract with the external object detector:
// labeled, confidence-scored bounding boxes on a document image, plus the
// padded cropping used to cut OCR regions out of the source image.
package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"

	"github.com/docuscan/aadhaarkit/fields"
)

// Box is an axis-aligned bounding box in pixel coordinates, origin at the
// upper-left corner of the image. X2/Y2 are exclusive.
type Box struct {
	X1, Y1, X2, Y2 int
}

// Pad expands the box by margin pixels on every side so that glyph edges
// sitting on the detector's boundary are not clipped.
func (b Box) Pad(margin int) Box {
	return Box{X1: b.X1 - margin, Y1: b.Y1 - margin, X2: b.X2 + margin, Y2: b.Y2 + margin}
}

// Clamp restricts the box to the given image bounds.
func (b Box) Clamp(bounds image.Rectangle) Box {
	return Box{
		X1: max(b.X1, bounds.Min.X),
		Y1: max(b.Y1, bounds.Min.Y),
		X2: min(b.X2, bounds.Max.X),
		Y2: min(b.Y2, bounds.Max.Y),
	}
}

// Empty reports whether the box has zero or negative area.
func (b Box) Empty() bool { return b.X2 <= b.X1 || b.Y2 <= b.Y1 }

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle { return image.Rect(b.X1, b.Y1, b.X2, b.Y2) }

// MarshalJSON encodes the box in the detector's wire form, a
// [x1, y1, x2, y2] array.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes a [x1, y1, x2, y2] array. Detectors commonly emit
// fractional pixel coordinates; they are truncated toward zero.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("bbox: expected 4 coordinates, got %d", len(coords))
	}
	b.X1, b.Y1, b.X2, b.Y2 = int(coords[0]), int(coords[1]), int(coords[2]), int(coords[3])
	return nil
}

// Detection is one located, labeled region on the source image. Instances
// are immutable once received from the detector.
type Detection struct {
	Label      fields.Label `json:"label"`
	Confidence float64      `json:"confidence"`
	Box        Box          `json:"bbox"`
}

// Detector locates labeled field regions on an encoded document image.
// Implementations are expected to filter detections below their configured
// confidence threshold before returning.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Crop cuts the padded, clamped region for a box out of the image. ok is
// false when the clamped box collapses to zero area; such detections are
// dropped before any preprocessing or OCR happens.
func Crop(img image.Image, box Box, margin int) (image.Image, bool) {
	clamped := box.Pad(margin).Clamp(img.Bounds())
	if clamped.Empty() {
		return nil, false
	}
	rect := clamped.Rect()
	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect), true
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, true
}
