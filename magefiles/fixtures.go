package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/magefile/mage/mg"
)

const demoDir = "demo"

// Demo builds the binary and generates sample inputs under demo/ for
// exercising the CLI by hand: three PNG page scans and a five-page PDF.
func Demo() error {
	mg.Deps(Build)

	if err := os.MkdirAll(demoDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", demoDir, err)
	}

	shades := []uint8{235, 215, 195}
	for i, shade := range shades {
		name := filepath.Join(demoDir, fmt.Sprintf("scan%d.png", i+1))
		if err := writeDemoImage(name, shade); err != nil {
			return err
		}
		fmt.Println("  ", name)
	}

	pdfName := filepath.Join(demoDir, "report.pdf")
	if err := writeDemoPDF(pdfName, 5); err != nil {
		return err
	}
	fmt.Println("  ", pdfName)

	fmt.Println("Demo inputs generated. Try:")
	fmt.Printf("  bin/%s convert %s/scan1.png %s/scan2.png %s/scan3.png --output %s/scans.pdf\n",
		binName, demoDir, demoDir, demoDir, demoDir)
	fmt.Printf("  bin/%s split %s/report.pdf --from 2 --to 4 --output %s/middle.pdf\n",
		binName, demoDir, demoDir)
	return nil
}

// writeDemoImage paints a 1240x1754 page (A4 at 150 DPI) in a flat shade
// with a darker band near the top, enough structure to see in a viewer.
func writeDemoImage(path string, shade uint8) error {
	const w, h = 1240, 1754
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{shade, shade, shade, 255}
	band := color.RGBA{shade - 80, shade - 80, shade - 80, 255}
	for y := 0; y < h; y++ {
		c := bg
		if y > 120 && y < 220 {
			c = band
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// writeDemoPDF builds a simple numbered document with pages of text.
func writeDemoPDF(path string, pages int) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 20, fmt.Sprintf("Demo report, page %d of %d.", i, pages))
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
