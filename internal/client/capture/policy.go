package capture

import (
	"fmt"
	"image"
	"math"
)

// CropPolicy describes how a frame is normalised before upload: resize to
// WorkingWidth (aspect preserved, 0 keeps the original size), then keep a
// centered window of WidthFraction x HeightFraction.
type CropPolicy struct {
	WorkingWidth   int     `json:"working_width" yaml:"working_width"`
	WidthFraction  float64 `json:"width_fraction" yaml:"width_fraction"`
	HeightFraction float64 `json:"height_fraction" yaml:"height_fraction"`
}

var (
	DefaultCropPolicy = CropPolicy{WorkingWidth: 1200, WidthFraction: 0.62, HeightFraction: 0.65}

	// VerticalTrimPolicy keeps the full width and trims top and bottom.
	VerticalTrimPolicy = CropPolicy{WorkingWidth: 600, WidthFraction: 1.0, HeightFraction: 0.8}
)

func (p CropPolicy) Validate() error {
	if p.WorkingWidth < 0 {
		return fmt.Errorf("working width %d must not be negative", p.WorkingWidth)
	}
	if !validFraction(p.WidthFraction) {
		return fmt.Errorf("width fraction %v must be in (0,1]", p.WidthFraction)
	}
	if !validFraction(p.HeightFraction) {
		return fmt.Errorf("height fraction %v must be in (0,1]", p.HeightFraction)
	}
	return nil
}

func validFraction(f float64) bool {
	return f > 0 && f <= 1 && !math.IsNaN(f)
}

// Region returns the centered crop window for a w x h image.
func (p CropPolicy) Region(w, h int) image.Rectangle {
	cw := int(math.Round(float64(w) * p.WidthFraction))
	ch := int(math.Round(float64(h) * p.HeightFraction))
	cw = max(1, min(cw, w))
	ch = max(1, min(ch, h))

	x0 := (w - cw) / 2
	y0 := (h - ch) / 2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

// PolicyByName resolves a named preset: "default" or "vertical-trim".
func PolicyByName(name string) (CropPolicy, bool) {
	switch name {
	case "", "default":
		return DefaultCropPolicy, true
	case "vertical-trim":
		return VerticalTrimPolicy, true
	default:
		return CropPolicy{}, false
	}
}
