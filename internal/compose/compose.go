// Package compose merges a media file with its transparent overlay: a single
// alpha blend for images, a per-frame blend with audio passthrough for
// videos. Output is written to a temporary name in the destination directory
// and renamed into place only on full success, so a failed composite never
// leaves a partial file behind.
package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/snapmerge/internal/sniff"
)

// Sentinel errors for the compositing steps.
var (
	ErrDecode            = errors.New("cannot decode input")
	ErrEncode            = errors.New("cannot encode output")
	ErrDimensionMismatch = errors.New("overlay cannot be fitted to media dimensions")
)

// Options adjusts compositing behavior; the zero value is the default.
type Options struct {
	Verbose bool // Tee ffmpeg stderr to os.Stderr in real time.
}

// Combine composites overlayPath onto mediaPath and writes the merged result
// to outputPath. The media kind is sniffed from content: images take the
// raster path, videos the ffmpeg path. outputPath should already carry the
// canonical extension for the media kind (.jpg or .mp4).
func Combine(ctx context.Context, mediaPath, overlayPath, outputPath string, opts Options) error {
	kind, _, err := sniff.DetectFile(mediaPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, mediaPath, err)
	}

	switch kind {
	case sniff.KindImage:
		return combineImage(mediaPath, overlayPath, outputPath)
	case sniff.KindVideo:
		return combineVideo(ctx, mediaPath, overlayPath, outputPath, opts)
	default:
		return fmt.Errorf("%w: %s is neither image nor video", ErrDecode, mediaPath)
	}
}

// stageOutput creates a hidden temporary file next to outputPath, sharing its
// extension so format-by-extension tools (ffmpeg) pick the right muxer. The
// caller writes to the temp path, then calls commit (rename) or discard.
func stageOutput(outputPath string) (tmpPath string, commit func() error, discard func(), err error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, nil, err
	}

	f, err := os.CreateTemp(dir, ".snapmerge-*"+filepath.Ext(outputPath))
	if err != nil {
		return "", nil, nil, err
	}
	tmpPath = f.Name()
	f.Close()

	commit = func() error { return os.Rename(tmpPath, outputPath) }
	discard = func() { os.Remove(tmpPath) }
	return tmpPath, commit, discard, nil
}
