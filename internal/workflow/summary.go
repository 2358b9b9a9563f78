package workflow

import (
	"time"

	"dirsort/internal/extract"
	"dirsort/internal/organizer"
	"dirsort/internal/reaper"
	"dirsort/internal/report"
)

// PassTiming is the wall time of one pass.
type PassTiming struct {
	Pass    string
	Elapsed time.Duration
}

// Summary is the outcome of one run.
type Summary struct {
	RunID       string
	Root        string
	RootMissing bool
	Result      *report.Result
	Walk        organizer.WalkStats
	Reap        reaper.Stats
	Extract     extract.Stats
	Timings     []PassTiming
	Elapsed     time.Duration
}

// Text renders the extension summary.
func (s *Summary) Text() string {
	if s == nil || s.Result == nil {
		return report.NoChangesMessage
	}
	return s.Result.Render()
}
