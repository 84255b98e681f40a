package stitch

/*
	Responsibilities:
	- Composite a sequence of viewport captures into one full-page image
	- Plan scroll offsets from dimensions measured once, before the first
	  capture
	- Keep the canvas exactly the measured page size, clipping any
	  overshoot from the final capture

	The capture callback is the only contact with the browser; the
	compositor itself is pure image arithmetic.
*/

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/rohmanhakim/site-crawler/pkg/failure"
)

// CaptureFunc scrolls the page to yOffset and returns the visible
// viewport as an image.
type CaptureFunc func(ctx context.Context, yOffset int) (image.Image, failure.ClassifiedError)

// Stitch captures the page in viewport-height steps and pastes each
// capture at its true offset on a canvas of exactly totalWidth by
// totalHeight pixels. The page is never re-measured between captures;
// content that grows mid-capture is clipped, content that shrinks leaves
// the tail unpainted.
func Stitch(
	ctx context.Context,
	capture CaptureFunc,
	totalWidth int,
	totalHeight int,
	viewportHeight int,
) (*image.RGBA, failure.ClassifiedError) {
	if totalWidth <= 0 || totalHeight <= 0 || viewportHeight <= 0 {
		return nil, &StitchError{
			Message: fmt.Sprintf(
				"dimensions must be positive, got %dx%d viewport %d",
				totalWidth, totalHeight, viewportHeight,
			),
			Retryable: false,
			Cause:     ErrCauseInvalidDimensions,
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))

	for y := 0; y < totalHeight; y += viewportHeight {
		if err := ctx.Err(); err != nil {
			return nil, &StitchError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCauseCaptureFail,
			}
		}

		shot, err := capture(ctx, y)
		if err != nil {
			return nil, err
		}

		// Paste at the true offset; draw.Draw clips anything past the
		// canvas bounds.
		target := image.Rect(0, y, totalWidth, y+shot.Bounds().Dy())
		draw.Draw(canvas, target, shot, shot.Bounds().Min, draw.Src)
	}

	return canvas, nil
}

// EncodePNG serializes the stitched canvas for storage.
func EncodePNG(img image.Image) ([]byte, failure.ClassifiedError) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &StitchError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseEncodeFail,
		}
	}
	return buf.Bytes(), nil
}
