package compose

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// execResult holds the outcome of a single ffmpeg invocation.
type execResult struct {
	Stderr string
	Err    error
}

// execute runs the assembled ffmpeg command. When verbose, stderr is tee'd
// to os.Stderr in real time; otherwise it is captured silently for error
// reporting.
func execute(ctx context.Context, args []string, opts Options) execResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if opts.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return execResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
