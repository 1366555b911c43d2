package compose

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/backmassage/snapmerge/internal/probe"
)

// combineVideo blends the static overlay over every frame of the video for
// its full duration and re-muxes the result with the original audio track
// copied bit-exact. The overlay is scaled to fit the frame inside ffmpeg's
// filter graph rather than pre-rendered, and placed centered.
func combineVideo(ctx context.Context, mediaPath, overlayPath, outputPath string, opts Options) error {
	pr, err := probe.Probe(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if pr.Video == nil {
		return fmt.Errorf("%w: %s has no video stream", ErrDecode, mediaPath)
	}

	ovW, ovH, err := overlayDimensions(overlayPath)
	if err != nil {
		return err
	}

	frameW, frameH := pr.Video.Width, pr.Video.Height
	if frameW < 1 || frameH < 1 {
		return fmt.Errorf("%w: %s reports %s frame size", ErrDimensionMismatch, mediaPath, pr.Resolution())
	}

	tmpPath, commit, discard, err := stageOutput(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	args := buildVideoArgs(mediaPath, overlayPath, tmpPath, frameW, frameH, ovW, ovH, opts)
	result := execute(ctx, args, opts)
	if result.Err != nil {
		discard()
		return fmt.Errorf("%w: ffmpeg: %v%s", ErrEncode, result.Err, stderrTail(result.Stderr))
	}

	if err := commit(); err != nil {
		discard()
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// buildVideoArgs constructs the complete ffmpeg argument slice for one
// composite. The filter graph scales the overlay down to fit the frame when
// needed and anchors it at the geometric center; audio and container
// metadata are mapped through unchanged, so duration and frame rate follow
// the source.
func buildVideoArgs(mediaPath, overlayPath, outputPath string, frameW, frameH, ovW, ovH int, opts Options) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if opts.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Inputs ---
	args = append(args, "-i", mediaPath, "-i", overlayPath)

	// --- Filter graph ---
	args = append(args, "-filter_complex", overlayFilter(frameW, frameH, ovW, ovH))
	args = append(args, "-map", "[vout]")

	// --- Audio passthrough (bit-exact copy of every source audio stream) ---
	args = append(args, "-map", "0:a?", "-c:a", "copy")

	// --- Video codec ---
	args = append(args,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
	)

	// --- Metadata and container ---
	args = append(args, "-map_metadata", "0", "-movflags", "+faststart")

	// --- Output ---
	args = append(args, outputPath)

	return args
}

// overlayFilter returns the filter_complex expression: optional
// aspect-preserving downscale of the overlay, then a centered overlay held
// for the whole duration of the main input.
func overlayFilter(frameW, frameH, ovW, ovH int) string {
	fitW, fitH := FitWithin(ovW, ovH, frameW, frameH)
	x, y := CenterOffset(frameW, frameH, fitW, fitH)

	if fitW == ovW && fitH == ovH {
		return fmt.Sprintf("[0:v][1:v]overlay=%d:%d[vout]", x, y)
	}
	return fmt.Sprintf("[1:v]scale=%d:%d[ov];[0:v][ov]overlay=%d:%d[vout]", fitW, fitH, x, y)
}

// overlayDimensions reads the overlay's pixel size without decoding the full
// raster.
func overlayDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return 0, 0, fmt.Errorf("%w: overlay is empty", ErrDimensionMismatch)
	}
	return cfg.Width, cfg.Height, nil
}

// stderrTail formats the last lines of captured ffmpeg stderr for an error
// message, or "" when there is nothing useful.
func stderrTail(stderr string) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n  " + strings.Join(lines, "\n  ")
}
