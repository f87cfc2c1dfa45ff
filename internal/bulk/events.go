package bulk

import (
	"github.com/handiism/social-transcriber/internal/expand"
	"github.com/handiism/social-transcriber/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Done is set on the event emitted once per finished job.
	Done *JobDone
}

// JobDone reports one finished job. Completed counts finished jobs so far,
// in completion order.
type JobDone struct {
	Completed int
	Total     int
	URL       string
	Result    model.JobResult
}

func levelOf(n expand.NoticeLevel) ProgressLevel {
	switch n {
	case expand.NoticeVerbose:
		return LevelVerbose
	case expand.NoticeWarning:
		return LevelWarning
	default:
		return LevelInfo
	}
}
