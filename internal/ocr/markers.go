// Package ocr reads film markers from digitized radiographs. Scanned film
// typically carries burned-in text in the corners: a laterality marker (L/R)
// and sometimes a patient or study banner. The text is informational only;
// recognition failure never blocks loading or measurement.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// MarkerChars is the character set for film marker OCR.
// Lowercase is excluded to reduce confusion (0/O, 1/I, etc.)
const MarkerChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-/:. "

// Corner bands are scanned as a fraction of the image dimension. Markers sit
// close to the film edge; scanning deeper picks up anatomy as false text.
const cornerBandFraction = 0.18

// Markers holds text recognized from a radiograph.
type Markers struct {
	Laterality string // "L", "R", or "" when no marker was found
	Banner     string // patient/study banner text, possibly empty
}

// Engine wraps a Tesseract client configured for film marker text.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a marker recognition engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Marker text is IDs and dates, not English words. Disable dictionary
	// correction so Tesseract doesn't rewrite them.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ReadMarkers scans the corner bands of a radiograph for marker text.
func (e *Engine) ReadMarkers(img image.Image) (Markers, error) {
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return Markers{}, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	w, h := src.Cols(), src.Rows()
	band := int(float64(h) * cornerBandFraction)
	if band < 1 {
		return Markers{}, nil
	}

	var m Markers
	var texts []string
	regions := []image.Rectangle{
		image.Rect(0, 0, w, band),   // top band
		image.Rect(0, h-band, w, h), // bottom band
	}
	for _, r := range regions {
		text, err := e.recognizeRegion(src, r)
		if err != nil {
			continue
		}
		if text == "" {
			continue
		}
		texts = append(texts, text)
		if m.Laterality == "" {
			m.Laterality = findLaterality(text)
		}
	}
	m.Banner = strings.Join(texts, " | ")
	return m, nil
}

// recognizeRegion runs OCR on one band of the image.
func (e *Engine) recognizeRegion(src gocv.Mat, r image.Rectangle) (string, error) {
	region := src.Region(r)
	defer region.Close()

	processed := preprocess(region)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(MarkerChars); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")
	return strings.ToUpper(text), nil
}

// preprocess binarizes a band for marker recognition. Markers are bright
// lead-letter imprints on dark film, so Otsu thresholding separates them well.
func preprocess(region gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(region, &gray, gocv.ColorRGBAToGray)

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
	gray.Close()
	return binary
}

// findLaterality looks for a standalone L or R token in recognized text.
func findLaterality(text string) string {
	for _, field := range strings.Fields(text) {
		if field == "L" || field == "R" {
			return field
		}
	}
	return ""
}
