package compose

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration for overlays.
	"os"

	"golang.org/x/image/draw"
)

// jpegQuality matches the canonical output encoding for merged images.
const jpegQuality = 90

// combineImage decodes the base and overlay rasters, alpha-composites the
// overlay centered onto the base, flattens to opaque RGB, and encodes the
// result as JPEG.
func combineImage(mediaPath, overlayPath, outputPath string) error {
	base, err := decodeImage(mediaPath)
	if err != nil {
		return err
	}
	overlay, err := decodeImage(overlayPath)
	if err != nil {
		return err
	}

	merged, err := compositeCentered(base, overlay)
	if err != nil {
		return err
	}

	tmpPath, commit, discard, err := stageOutput(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := encodeJPEG(tmpPath, merged); err != nil {
		discard()
		return err
	}
	if err := commit(); err != nil {
		discard()
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// compositeCentered draws base opaquely into a fresh RGBA canvas, then alpha
// blends the overlay over it, centered. Overlays larger than the base are
// downscaled to fit within its bounds first, aspect ratio preserved.
func compositeCentered(base, overlay image.Image) (image.Image, error) {
	bb := base.Bounds()
	baseW, baseH := bb.Dx(), bb.Dy()
	if baseW < 1 || baseH < 1 {
		return nil, fmt.Errorf("%w: base image is empty", ErrDimensionMismatch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, baseW, baseH))
	draw.Draw(dst, dst.Bounds(), base, bb.Min, draw.Src)

	ob := overlay.Bounds()
	ovW, ovH := FitWithin(ob.Dx(), ob.Dy(), baseW, baseH)
	if ovW < 1 || ovH < 1 {
		return nil, fmt.Errorf("%w: overlay is empty", ErrDimensionMismatch)
	}

	x, y := CenterOffset(baseW, baseH, ovW, ovH)
	target := image.Rect(x, y, x+ovW, y+ovH)

	if ovW == ob.Dx() && ovH == ob.Dy() {
		draw.Draw(dst, target, overlay, ob.Min, draw.Over)
	} else {
		// CatmullRom for high-quality downscaling.
		draw.CatmullRom.Scale(dst, target, overlay, ob, draw.Over, nil)
	}

	return dst, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

func encodeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return f.Close()
}
