// Package probe inspects a video file with a single ffprobe JSON call and
// returns the stream metadata the compositor needs: frame dimensions,
// duration, frame rate, and audio presence.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs one ffprobe JSON call against path and returns the parsed
// result.
func Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index        int            `json:"index"`
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if s.Disposition["attached_pic"] == 1 {
				continue
			}
			if r.Video == nil {
				r.Video = &VideoStream{
					Index:        s.Index,
					Codec:        s.CodecName,
					Width:        s.Width,
					Height:       s.Height,
					AvgFrameRate: s.AvgFrameRate,
				}
			}
		case "audio":
			r.AudioStreams = append(r.AudioStreams, AudioStream{
				Index: s.Index,
				Codec: s.CodecName,
			})
		}
	}
	return r
}

// VideoStream holds the parsed properties of the primary video stream.
type VideoStream struct {
	Index        int
	Codec        string
	Width        int
	Height       int
	AvgFrameRate string // Rational as reported, e.g. "30000/1001".
}

// AudioStream identifies one audio stream to be passed through.
type AudioStream struct {
	Index int
	Codec string
}

// Result is the fully parsed output of a single ffprobe JSON call.
// Video is the first non-attached-pic video stream (nil if none).
type Result struct {
	FormatName   string
	Duration     float64
	Video        *VideoStream
	AudioStreams []AudioStream
}

// HasAudio reports whether the file carries at least one audio stream.
func (r *Result) HasAudio() bool { return len(r.AudioStreams) > 0 }

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (r *Result) Resolution() string {
	if r.Video == nil || r.Video.Width <= 0 || r.Video.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.Video.Width) + "x" + strconv.Itoa(r.Video.Height)
}

// FrameRate returns the average frame rate as a float, or 0 when unknown.
func (r *Result) FrameRate() float64 {
	if r.Video == nil {
		return 0
	}
	parts := strings.SplitN(r.Video.AvgFrameRate, "/", 2)
	if len(parts) != 2 {
		return parseFloat(r.Video.AvgFrameRate)
	}
	num := parseFloat(parts[0])
	den := parseFloat(parts[1])
	if den == 0 {
		return 0
	}
	return num / den
}

// ffprobe returns numbers as strings.
func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
