// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/document-engine/internal/source"
	"github.com/pdiddy/document-engine/pkg/types"
)

// layout is the resolved geometry for one image page. All values are
// points: the page box and the placement rectangle inside it.
type layout struct {
	PageW, PageH float64
	X, Y, W, H   float64
}

// orientFor resolves auto orientation from the image aspect: wider than
// tall turns the page sideways (R2.4).
func orientFor(spec types.OutputSpec, imgW, imgH int) types.Orientation {
	if spec.Orientation != types.OrientAuto {
		return spec.Orientation
	}
	if imgW > imgH {
		return types.OrientLandscape
	}
	return types.OrientPortrait
}

// layoutFor fits the image onto the page preserving aspect ratio, centered
// inside the margins, never cropped (R2.2-R2.3). PageOriginal sizes the
// page to the image itself at one point per pixel, plus margins.
func layoutFor(spec types.OutputSpec, imgW, imgH int) layout {
	margin := spec.Margin.Points()
	w, h := float64(imgW), float64(imgH)

	if spec.PageSize == types.PageOriginal {
		return layout{
			PageW: w + 2*margin, PageH: h + 2*margin,
			X: margin, Y: margin, W: w, H: h,
		}
	}

	pageW, pageH := spec.PageSize.Dimensions(orientFor(spec, imgW, imgH))
	availW, availH := pageW-2*margin, pageH-2*margin
	scale := math.Min(availW/w, availH/h)
	fitW, fitH := w*scale, h*scale
	return layout{
		PageW: pageW, PageH: pageH,
		X: margin + (availW-fitW)/2,
		Y: margin + (availH-fitH)/2,
		W: fitW, H: fitH,
	}
}

// imageType maps a registered decoder name to the layout engine's type tag.
func imageType(format string) string {
	if format == "jpeg" {
		return "JPG"
	}
	return "PNG"
}

// imagesToPDF lays each image onto its own page. Pages are emitted in
// source order; cancellation is checked before each image (R2.1, R4.1).
func imagesToPDF(ctx context.Context, sources []source.Source, spec types.OutputSpec, outPath string, advance Advance) error {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	for i, s := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		lay := layoutFor(spec, s.Width, s.Height)
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: lay.PageW, Ht: lay.PageH})

		f, err := os.Open(s.File.Path)
		if err != nil {
			return types.NewIOError(s.File.Path, err)
		}
		name := fmt.Sprintf("img%d", i)
		opts := gofpdf.ImageOptions{ImageType: imageType(s.Format), ReadDpi: false}
		doc.RegisterImageOptionsReader(name, opts, f)
		f.Close()
		if doc.Err() {
			return types.NewDecodeError(s.File.Path, "cannot embed image", doc.Error())
		}

		doc.ImageOptions(name, lay.X, lay.Y, lay.W, lay.H, false, opts, 0, "")
		if doc.Err() {
			return types.NewDecodeError(s.File.Path, "cannot place image", doc.Error())
		}
		advance(1, filepath.Base(s.File.Path))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return types.NewIOError(outPath, err)
	}
	return nil
}
