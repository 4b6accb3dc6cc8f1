package usecase

import "stocks_bot/internal/feature/prices/domain/entity"

// Reply is one outgoing chat message.
// A reply with PhotoPath set is sent as an image; otherwise Text is sent.
type Reply struct {
	Text     string
	Markdown bool
	Keyboard *Keyboard

	PhotoPath string
	Caption   string
	// DeleteAfterSend removes PhotoPath once the transport is done with it.
	DeleteAfterSend bool
}

// JobKind identifies the blocking operation behind a finished dialogue.
type JobKind string

const (
	JobChart    JobKind = "chart"
	JobSMA      JobKind = "sma"
	JobFullData JobKind = "fulldata"
)

// Job is a request collected by the dialogue, ready to run on the worker pool.
type Job struct {
	Kind      JobKind
	UserID    int64
	ChatID    int64
	Ticker    string
	Key       entity.QueryKey  // JobChart only
	ChartType entity.ChartType // JobChart only
}

// Outcome is the result of handling one incoming message.
type Outcome struct {
	Replies []Reply
	Job     *Job
}

func text(s string, kb *Keyboard) Reply {
	return Reply{Text: s, Markdown: true, Keyboard: kb}
}
