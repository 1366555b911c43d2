package pipeline

// Status is the per-unit processing outcome.
type Status int

const (
	StatusMerged Status = iota
	StatusCopied
	StatusSkipped
	StatusFailed
)

// String returns the summary label for a status.
func (s Status) String() string {
	switch s {
	case StatusMerged:
		return "merged"
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result records one unit's outcome. Reason is set for skipped and failed
// units; OutputPath for merged and copied ones.
type Result struct {
	Unit       string
	Status     Status
	Reason     string
	OutputPath string
}

// RunStats tracks aggregate counters and results across a batch run.
type RunStats struct {
	Total   int
	Current int

	Merged  int
	Copied  int
	Skipped int
	Failed  int

	TotalOutputBytes int64

	Results []Result
}

// record appends a result and bumps its counter.
func (s *RunStats) record(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusMerged:
		s.Merged++
	case StatusCopied:
		s.Copied++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Failures returns the failed results, for the end-of-run report.
func (s *RunStats) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
