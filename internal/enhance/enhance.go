// Package enhance provides optional radiograph enhancement backed by
// OpenCV: adaptive histogram equalization and edge sharpening. Enhancement
// only affects the displayed image; measurement coordinates are untouched.
package enhance

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CLAHE parameters tuned for bone/soft-tissue boundaries on digitized film.
const (
	claheClipLimit = 2.0
	claheTileSize  = 8
)

// CLAHE applies contrast-limited adaptive histogram equalization to the
// radiograph's luminance, making vertebral endplates easier to pick out on
// low-contrast film.
func CLAHE(img image.Image) (image.Image, error) {
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileSize, claheTileSize))
	defer clahe.Close()

	equalized := gocv.NewMat()
	defer equalized.Close()
	clahe.Apply(gray, &equalized)

	out, err := equalized.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return out, nil
}

// Sharpen applies an unsharp mask, boosting bone edges.
func Sharpen(img image.Image) (image.Image, error) {
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(0, 0), 3, 3, gocv.BorderDefault)

	sharpened := gocv.NewMat()
	defer sharpened.Close()
	gocv.AddWeighted(src, 1.5, blurred, -0.5, 0, &sharpened)

	out, err := sharpened.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return out, nil
}
