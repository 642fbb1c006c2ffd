// Command spinereport works with SpineView annotation files from the
// command line, without opening the UI.
//
// Usage:
//
//	spinereport report <annotations.json>
//	spinereport validate <annotations.json>
package main

import (
	"fmt"
	"os"

	"spineview/internal/measure"
	"spineview/internal/session"
	"spineview/pkg/geometry"

	"github.com/spf13/cobra"
)

var examType string

func main() {
	root := &cobra.Command{
		Use:           "spinereport",
		Short:         "Inspect SpineView annotation files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	reportCmd := &cobra.Command{
		Use:   "report <annotations.json>",
		Short: "Render a plain-text measurement report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&examType, "exam", string(measure.ExamFrontal),
		"exam type for the report header (frontal or lateral)")

	validateCmd := &cobra.Command{
		Use:   "validate <annotations.json>",
		Short: "Check an annotation file for errors",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	root.AddCommand(reportCmd, validateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spinereport: %v\n", err)
		os.Exit(1)
	}
}

func loadSession(path string) (*session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// A zero size keeps stored coordinates unscaled.
	return session.Import(data, geometry.Size{})
}

func runReport(cmd *cobra.Command, args []string) error {
	exam := measure.ExamType(examType)
	if exam != measure.ExamFrontal && exam != measure.ExamLateral {
		return fmt.Errorf("unknown exam type %q", examType)
	}

	sess, err := loadSession(args[0])
	if err != nil {
		return err
	}

	hdr := session.ReportHeader{
		ImageID:  sess.ImageID,
		ExamType: exam,
	}
	fmt.Print(session.Report(hdr, sess.Measurements, sess.Calibration))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Printf("%s: ok\n", args[0])
	fmt.Printf("  image:        %s\n", sess.ImageID)
	fmt.Printf("  measurements: %d\n", len(sess.Measurements))
	if sess.Calibration.Set() {
		fmt.Printf("  scale:        %.4f mm/px\n", sess.Calibration.MMPerPixel())
	} else {
		fmt.Printf("  scale:        default (%.2f mm/px)\n", measure.DefaultMMPerPixel)
	}
	return nil
}
