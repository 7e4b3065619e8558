// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// mmToPoints converts millimetres to PDF points (1 pt = 1/72 inch).
const mmToPoints = 72.0 / 25.4

// PageSize selects the output page dimensions for image-to-PDF assembly.
// Per prd003-assembly R2.1.
type PageSize string

const (
	PageA4       PageSize = "a4"
	PageLetter   PageSize = "letter"
	PageLegal    PageSize = "legal"
	PageOriginal PageSize = "original"
)

// pageSizesMM maps each preset to its portrait width and height in mm.
var pageSizesMM = map[PageSize][2]float64{
	PageA4:     {210, 297},
	PageLetter: {215.9, 279.4},
	PageLegal:  {215.9, 355.6},
}

// Dimensions returns the page width and height in points for the given
// orientation. Landscape swaps the portrait dimensions. PageOriginal has no
// fixed dimensions and returns zeros; the caller sizes the page from the
// source image instead.
func (p PageSize) Dimensions(o Orientation) (w, h float64) {
	mm, ok := pageSizesMM[p]
	if !ok {
		return 0, 0
	}
	w, h = mm[0]*mmToPoints, mm[1]*mmToPoints
	if o == OrientLandscape {
		w, h = h, w
	}
	return w, h
}

// ParsePageSize validates a page size flag value.
func ParsePageSize(s string) (PageSize, error) {
	switch p := PageSize(s); p {
	case PageA4, PageLetter, PageLegal, PageOriginal:
		return p, nil
	}
	return "", fmt.Errorf("unknown page size %q: use a4, letter, legal, or original", s)
}

// Orientation selects the page orientation for image-to-PDF assembly.
// OrientAuto picks per image: landscape when the image is wider than tall.
type Orientation string

const (
	OrientPortrait  Orientation = "portrait"
	OrientLandscape Orientation = "landscape"
	OrientAuto      Orientation = "auto"
)

// ParseOrientation validates an orientation flag value.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(s); o {
	case OrientPortrait, OrientLandscape, OrientAuto:
		return o, nil
	}
	return "", fmt.Errorf("unknown orientation %q: use portrait, landscape, or auto", s)
}

// MarginPreset selects the page margin for image-to-PDF assembly.
// Per prd003-assembly R2.2.
type MarginPreset string

const (
	MarginNone   MarginPreset = "none"
	MarginSmall  MarginPreset = "small"
	MarginMedium MarginPreset = "medium"
	MarginLarge  MarginPreset = "large"
)

// marginsMM maps each preset to its size in mm (0.5in, 1in, 1.5in).
var marginsMM = map[MarginPreset]float64{
	MarginNone:   0,
	MarginSmall:  12.7,
	MarginMedium: 25.4,
	MarginLarge:  38.1,
}

// Points returns the margin size in points.
func (m MarginPreset) Points() float64 {
	return marginsMM[m] * mmToPoints
}

// ParseMargin validates a margin flag value.
func ParseMargin(s string) (MarginPreset, error) {
	switch m := MarginPreset(s); m {
	case MarginNone, MarginSmall, MarginMedium, MarginLarge:
		return m, nil
	}
	return "", fmt.Errorf("unknown margin %q: use none, small, medium, or large", s)
}

// ImageFormat selects the encoding for rendered page images.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// Ext returns the file extension for the format, without the dot.
func (f ImageFormat) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ParseImageFormat validates an image format flag value.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unknown image format %q: use png or jpeg", s)
}

// OCRMode trades recognition speed against accuracy by selecting the
// rasterization density. Per prd008-auxiliary R2.3.
type OCRMode string

const (
	OCRFast     OCRMode = "fast"
	OCRBalanced OCRMode = "balanced"
	OCRAccurate OCRMode = "accurate"
)

// DPI returns the render density for the mode.
func (m OCRMode) DPI() int {
	switch m {
	case OCRFast:
		return 150
	case OCRAccurate:
		return 600
	default:
		return 300
	}
}

// ParseOCRMode validates an OCR mode flag value.
func ParseOCRMode(s string) (OCRMode, error) {
	switch m := OCRMode(s); m {
	case OCRFast, OCRBalanced, OCRAccurate:
		return m, nil
	}
	return "", fmt.Errorf("unknown OCR mode %q: use fast, balanced, or accurate", s)
}

// CompressionLevel selects how aggressively the codec optimization pass
// rewrites the document. Per prd008-auxiliary R3.1.
type CompressionLevel string

const (
	CompressLow    CompressionLevel = "low"
	CompressMedium CompressionLevel = "medium"
	CompressHigh   CompressionLevel = "high"
)

// ParseCompressionLevel validates a compression level flag value.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	switch l := CompressionLevel(s); l {
	case CompressLow, CompressMedium, CompressHigh:
		return l, nil
	}
	return "", fmt.Errorf("unknown compression level %q: use low, medium, or high", s)
}

// OutputSpec governs exactly one output document write: where it goes and,
// for image-to-PDF assembly, how pages are laid out. Merge and split
// outputs carry no layout settings.
type OutputSpec struct {
	// Path is the final destination. The write itself goes through a
	// temporary file in the same directory.
	Path string `json:"path" yaml:"path"`

	// PageSize is the output page preset (image-to-PDF only).
	PageSize PageSize `json:"page_size,omitempty" yaml:"page_size,omitempty"`

	// Orientation is the page orientation (image-to-PDF only).
	Orientation Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`

	// Margin is the page margin preset (image-to-PDF only).
	Margin MarginPreset `json:"margin,omitempty" yaml:"margin,omitempty"`
}

// OCRConfig holds defaults for the OCR operation.
type OCRConfig struct {
	// Language is the Tesseract language code (e.g. "eng", "eng+deu").
	Language string `json:"language" yaml:"language"`

	// Mode selects the speed/accuracy trade-off: fast, balanced, accurate.
	Mode OCRMode `json:"mode" yaml:"mode"`

	// DPI overrides the mode's render density when non-zero.
	DPI int `json:"dpi,omitempty" yaml:"dpi,omitempty"`
}

// HistoryConfig holds settings for the operation journal.
type HistoryConfig struct {
	// Path is the SQLite database location. Empty selects the default
	// under the user's config directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Disabled turns journaling off entirely.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Config is the process-wide configuration, loaded once at startup and
// read-only for the duration of any operation.
type Config struct {
	// PageSize is the default page preset for image-to-PDF assembly.
	PageSize PageSize `json:"page_size" yaml:"page_size"`

	// Orientation is the default page orientation.
	Orientation Orientation `json:"orientation" yaml:"orientation"`

	// Margin is the default margin preset.
	Margin MarginPreset `json:"margin" yaml:"margin"`

	// ImageFormat is the default encoding for rendered page images.
	ImageFormat ImageFormat `json:"image_format" yaml:"image_format"`

	// DPI is the default render density for PDF-to-image conversion.
	DPI int `json:"dpi" yaml:"dpi"`

	// JPEGQuality is the encoder quality for JPEG page images (1-100).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// OCR holds OCR operation defaults.
	OCR OCRConfig `json:"ocr" yaml:"ocr"`

	// History holds operation journal settings.
	History HistoryConfig `json:"history" yaml:"history"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:    PageA4,
		Orientation: OrientPortrait,
		Margin:      MarginNone,
		ImageFormat: FormatPNG,
		DPI:         150,
		JPEGQuality: 95,
		OCR: OCRConfig{
			Language: "eng",
			Mode:     OCRBalanced,
		},
	}
}
