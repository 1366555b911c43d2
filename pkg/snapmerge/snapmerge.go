// Package snapmerge exposes the merge pipeline as a library: batch
// processing of an export directory, direct media/overlay compositing, and
// pair discovery inside a directory. The snapmerge CLI is a thin layer over
// these entry points.
package snapmerge

import (
	"context"

	"github.com/backmassage/snapmerge/internal/classify"
	"github.com/backmassage/snapmerge/internal/compose"
	"github.com/backmassage/snapmerge/internal/config"
	"github.com/backmassage/snapmerge/internal/logging"
	"github.com/backmassage/snapmerge/internal/pipeline"
)

// BatchReport summarizes one ProcessData run.
type BatchReport struct {
	Total   int
	Merged  int
	Copied  int
	Skipped int
	Failed  int

	// Failures holds one human-readable "unit: reason" entry per failed unit.
	Failures []string
}

// ProcessData runs the whole pipeline over inputDir, writing flattened,
// extension-corrected results into outputDir. Per-unit failures are
// collected in the report; the returned error is non-nil only when inputDir
// cannot be read.
func ProcessData(ctx context.Context, inputDir, outputDir string, overwrite bool) (BatchReport, error) {
	cfg := config.DefaultConfig()
	cfg.InputDir = config.NormalizeDirArg(inputDir)
	cfg.OutputDir = config.NormalizeDirArg(outputDir)
	cfg.Overwrite = overwrite
	cfg.ColorMode = config.ColorNever

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return BatchReport{}, err
	}
	defer log.Close()

	stats, err := pipeline.Run(ctx, &cfg, log)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{
		Total:   stats.Total,
		Merged:  stats.Merged,
		Copied:  stats.Copied,
		Skipped: stats.Skipped,
		Failed:  stats.Failed,
	}
	for _, r := range stats.Failures() {
		report.Failures = append(report.Failures, r.Unit+": "+r.Reason)
	}
	return report, nil
}

// CombineMedia composites overlayPath onto mediaPath (image or video,
// decided by content) and writes the merged result to outputPath.
func CombineMedia(ctx context.Context, mediaPath, overlayPath, outputPath string) error {
	return compose.Combine(ctx, mediaPath, overlayPath, outputPath, compose.Options{})
}

// DiscoverPair infers the (media, overlay) pair inside dir without requiring
// an archive.
func DiscoverPair(dir string) (mediaPath, overlayPath string, err error) {
	return classify.DiscoverPair(dir)
}
