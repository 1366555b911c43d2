// Package pipeline orchestrates unit enumeration, per-unit processing, and
// batch summary reporting. Each top-level input entry is one unit; a unit
// that fails is reported and the batch moves on, so a single corrupt archive
// or undecodable frame never aborts a run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/snapmerge/internal/archive"
	"github.com/backmassage/snapmerge/internal/classify"
	"github.com/backmassage/snapmerge/internal/compose"
	"github.com/backmassage/snapmerge/internal/config"
	"github.com/backmassage/snapmerge/internal/display"
	"github.com/backmassage/snapmerge/internal/logging"
	"github.com/backmassage/snapmerge/internal/sniff"
)

// unitEntry pairs a classified unit with its classification error, so that
// stat failures surface as per-unit results in enumeration order rather than
// being dropped up front.
type unitEntry struct {
	unit classify.Unit
	err  error
}

// Run is the top-level batch entry point. It enumerates input units, pairs
// loose main/overlay siblings, processes each unit sequentially, and returns
// aggregate stats. The returned error is non-nil only for the fatal
// precondition of an unreadable input directory; per-unit failures are
// reported in the stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	paths, err := Enumerate(cfg.InputDir)
	if err != nil {
		return stats, fmt.Errorf("cannot read input directory: %w", err)
	}

	units := classifyAll(paths)
	pairs, consumed := pairSiblings(units)

	stats.Total = len(units) - len(consumed)
	logBatchHeader(cfg, log, &stats)

	for i := range units {
		if consumed[i] {
			continue
		}
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		stats.Current++

		var overlay *classify.Unit
		if j, ok := pairs[i]; ok {
			overlay = &units[j].unit
		}
		processUnit(ctx, cfg, log, &units[i], overlay, &stats)
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// classifyAll classifies every enumerated path, keeping errors alongside so
// they are reported in order.
func classifyAll(paths []string) []unitEntry {
	units := make([]unitEntry, len(paths))
	for i, p := range paths {
		u, err := classify.Classify(p)
		units[i] = unitEntry{unit: u, err: err}
	}
	return units
}

// pairSiblings matches loose "main" files at the input root with their
// "overlay" siblings by shared name base. It returns the main→overlay index
// map and the set of overlay indices consumed by a pairing (those are not
// processed as standalone units).
func pairSiblings(units []unitEntry) (map[int]int, map[int]bool) {
	overlays := make(map[string]int)
	for i := range units {
		u := &units[i].unit
		if units[i].err != nil || u.IsDir || u.IsArchive || u.Role != classify.RoleOverlay {
			continue
		}
		if u.Kind != sniff.KindImage || u.Ext != ".png" {
			continue
		}
		base := strings.ToLower(classify.PairBase(u.Name, classify.RoleOverlay))
		if base != "" {
			overlays[base] = i
		}
	}

	pairs := make(map[int]int)
	consumed := make(map[int]bool)
	for i := range units {
		u := &units[i].unit
		if units[i].err != nil || u.IsDir || u.IsArchive || u.Role != classify.RoleMain {
			continue
		}
		if u.Kind != sniff.KindImage && u.Kind != sniff.KindVideo {
			continue
		}
		base := strings.ToLower(classify.PairBase(u.Name, classify.RoleMain))
		if base == "" {
			continue
		}
		if j, ok := overlays[base]; ok && !consumed[j] {
			pairs[i] = j
			consumed[j] = true
		}
	}
	return pairs, consumed
}

// processUnit routes one unit through the matching handler. Every failure
// path records a Failed result and returns; nothing here aborts the batch.
func processUnit(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	entry *unitEntry,
	overlay *classify.Unit,
	stats *RunStats,
) {
	u := &entry.unit
	log.Info("[%d/%d] %s", stats.Current, stats.Total, u.Name)

	switch {
	case entry.err != nil:
		fail(log, stats, u.Name, entry.err)

	case u.IsDir:
		media, ovl, err := classify.DiscoverPair(u.SourcePath)
		if err != nil {
			fail(log, stats, u.Name, err)
			return
		}
		mergeUnit(ctx, cfg, log, stats, u.Name, media, ovl)

	case u.IsArchive:
		processArchive(ctx, cfg, log, stats, u)

	case u.Role == classify.RoleAmbiguous:
		fail(log, stats, u.Name, fmt.Errorf("filename matches both main and overlay patterns"))

	case overlay != nil:
		stem := classify.PairBase(u.Name, classify.RoleMain)
		mergeUnit(ctx, cfg, log, stats, stem, u.SourcePath, overlay.SourcePath)

	case u.IsOpaque:
		copyUnit(cfg, log, stats, u, u.Name)

	case u.Kind == sniff.KindUnknown:
		fail(log, stats, u.Name, fmt.Errorf("%w: %s", sniff.ErrUnsupportedType, u.SourcePath))

	default:
		copyUnit(cfg, log, stats, u, OriginalStem(u.Name)+u.Ext)
	}
}

// processArchive resolves the archive into a temporary pair and composites
// it. The extraction directory is released when the unit is done, success or
// not.
func processArchive(ctx context.Context, cfg *config.Config, log *logging.Logger, stats *RunStats, u *classify.Unit) {
	ex, err := archive.Resolve(u.SourcePath)
	if err != nil {
		fail(log, stats, u.Name, err)
		return
	}
	defer ex.Close()

	log.Debug(cfg.Verbose, "Extracted %s -> %s", u.Name, ex.Dir())
	mergeUnit(ctx, cfg, log, stats, u.Name, ex.MediaPath, ex.OverlayPath)
}

// mergeUnit applies the overwrite policy and composites one resolved
// media/overlay pair. nameSource provides the output stem (the unit's own
// name: the zip or directory name, or the shared sibling base).
func mergeUnit(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	stats *RunStats,
	nameSource, mediaPath, overlayPath string,
) {
	stem := OriginalStem(filepath.Base(nameSource))

	action, err := Decide(stem, cfg.OutputDir, cfg.Overwrite)
	if err != nil {
		fail(log, stats, nameSource, err)
		return
	}
	if action == ActionSkip {
		skip(log, stats, nameSource, stem)
		return
	}

	kind, _, err := sniff.DetectFile(mediaPath)
	if err != nil {
		fail(log, stats, nameSource, err)
		return
	}

	// Merged images flatten to JPEG; merged videos stay MP4.
	ext := ".jpg"
	if kind == sniff.KindVideo {
		ext = ".mp4"
	}
	outputPath := filepath.Join(cfg.OutputDir, stem+ext)

	log.Info("  Merging %s (%s) + %s", filepath.Base(mediaPath), kind, filepath.Base(overlayPath))

	if cfg.DryRun {
		log.Success("[DRY] Would merge -> %s", filepath.Base(outputPath))
		stats.record(Result{Unit: nameSource, Status: StatusMerged, OutputPath: outputPath})
		return
	}

	if err := compose.Combine(ctx, mediaPath, overlayPath, outputPath, compose.Options{Verbose: cfg.Verbose}); err != nil {
		fail(log, stats, nameSource, err)
		return
	}

	if fi, err := os.Stat(outputPath); err == nil {
		stats.TotalOutputBytes += fi.Size()
	}
	stats.record(Result{Unit: nameSource, Status: StatusMerged, OutputPath: outputPath})
	log.Success("Merged -> %s", filepath.Base(outputPath))
}

// copyUnit applies the overwrite policy and copies a standalone unit into
// the output directory under outputName (extension already normalized by
// the caller).
func copyUnit(cfg *config.Config, log *logging.Logger, stats *RunStats, u *classify.Unit, outputName string) {
	stem := OriginalStem(outputName)

	action, err := Decide(stem, cfg.OutputDir, cfg.Overwrite)
	if err != nil {
		fail(log, stats, u.Name, err)
		return
	}
	if action == ActionSkip {
		skip(log, stats, u.Name, stem)
		return
	}

	outputPath := filepath.Join(cfg.OutputDir, outputName)

	if cfg.DryRun {
		log.Success("[DRY] Would copy -> %s", outputName)
		stats.record(Result{Unit: u.Name, Status: StatusCopied, OutputPath: outputPath})
		return
	}

	n, err := copyFile(u.SourcePath, outputPath)
	if err != nil {
		fail(log, stats, u.Name, err)
		return
	}

	stats.TotalOutputBytes += n
	stats.record(Result{Unit: u.Name, Status: StatusCopied, OutputPath: outputPath})
	log.Success("Copied -> %s", outputName)
}

func fail(log *logging.Logger, stats *RunStats, unit string, err error) {
	log.Error("Failed: %v", err)
	stats.record(Result{Unit: unit, Status: StatusFailed, Reason: err.Error()})
}

func skip(log *logging.Logger, stats *RunStats, unit, stem string) {
	log.Warn("Skip (exists): %s", stem)
	stats.record(Result{Unit: unit, Status: StatusSkipped, Reason: "output stem already exists"})
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d units", stats.Total)
	if cfg.Overwrite {
		log.Info("Overwrite: replace outputs with a matching stem")
	} else {
		log.Info("Overwrite: off (matching stems are skipped)")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	fmt.Println()
	log.Info("==============================")
	log.Info("Done: %d merged, %d copied, %d skipped, %d failed",
		stats.Merged, stats.Copied, stats.Skipped, stats.Failed)
	log.Info("  Total units processed: %d", stats.Current)

	if cfg.DryRun {
		log.Info("  Total written: n/a (dry run)")
	} else {
		log.Info("  Total written: %s", display.FormatBytes(stats.TotalOutputBytes))
	}

	for _, r := range stats.Failures() {
		log.Error("  %s: %s", r.Unit, r.Reason)
	}
}
