package session

import (
	"fmt"
	"strings"
	"time"

	"spineview/internal/measure"
)

// ReportHeader carries optional study context for the report top matter.
type ReportHeader struct {
	ImageID    string
	Laterality string
	Banner     string
	ExamType   measure.ExamType
}

// Report renders a plain-text measurement report. Auxiliary shapes carry no
// clinical value and are listed separately.
func Report(hdr ReportHeader, measurements []*measure.Measurement, calib *measure.Calibration) string {
	var b strings.Builder

	b.WriteString("SPINAL RADIOGRAPH MEASUREMENT REPORT\n")
	b.WriteString("====================================\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04"))
	if hdr.ImageID != "" {
		fmt.Fprintf(&b, "Image:     %s\n", hdr.ImageID)
	}
	fmt.Fprintf(&b, "View:      %s\n", hdr.ExamType)
	if hdr.Laterality != "" {
		fmt.Fprintf(&b, "Marker:    %s\n", hdr.Laterality)
	}
	if hdr.Banner != "" {
		fmt.Fprintf(&b, "Film text: %s\n", hdr.Banner)
	}
	if calib.Set() {
		fmt.Fprintf(&b, "Scale:     %.4f mm/px (calibrated)\n", calib.MMPerPixel())
	} else {
		fmt.Fprintf(&b, "Scale:     %.4f mm/px (default, uncalibrated)\n", calib.MMPerPixel())
	}
	b.WriteString("\n")

	var clinical, auxiliary []*measure.Measurement
	for _, m := range measurements {
		if m.Auxiliary() {
			auxiliary = append(auxiliary, m)
		} else {
			clinical = append(clinical, m)
		}
	}

	b.WriteString("Measurements\n------------\n")
	if len(clinical) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, m := range clinical {
		fmt.Fprintf(&b, "  %-24s %s\n", m.DisplayName(), m.Value)
		if m.Description != "" {
			fmt.Fprintf(&b, "    %s\n", m.Description)
		}
	}

	if len(auxiliary) > 0 {
		b.WriteString("\nAnnotations\n-----------\n")
		for _, m := range auxiliary {
			fmt.Fprintf(&b, "  %s (%d points)\n", m.DisplayName(), len(m.Points))
		}
	}

	return b.String()
}
