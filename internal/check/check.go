// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg and ffprobe, which the video composite
// path shells out to.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg
// and ffprobe and smoke-tests the overlay filter used by the video path.
// This is informational only — it does not stop on failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkFfprobe(log)
	checkOverlayFilter(log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	log.Success("ffmpeg: %s", toolVersion("ffmpeg"))
}

// checkFfprobe verifies ffprobe is on PATH and logs its version string.
func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return
	}
	log.Success("ffprobe: %s", toolVersion("ffprobe"))
}

// checkOverlayFilter runs a minimal lavfi overlay composite to verify the
// filter graph the video path relies on.
func checkOverlayFilter(log Logger) {
	log.Info("Testing overlay filter...")
	ok := runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "testsrc=duration=0.1:size=320x240:rate=24",
		"-f", "lavfi", "-i", "color=c=red@0.5:s=64x64:d=0.1,format=rgba",
		"-filter_complex", "[0:v][1:v]overlay=128:88[vout]",
		"-map", "[vout]",
		"-f", "null", "-",
	)
	if ok {
		log.Success("Overlay filter works")
	} else {
		log.Error("Overlay filter test failed")
	}
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH. Returns a sentinel error on failure.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// toolVersion returns the first line of "<tool> -version" output.
func toolVersion(tool string) string {
	out, err := exec.Command(tool, "-version").Output()
	if err != nil {
		return "(version unavailable)"
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line
}

// runSilent runs a command discarding output, reporting only success.
func runSilent(name string, args ...string) bool {
	return exec.Command(name, args...).Run() == nil
}
