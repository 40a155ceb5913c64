package ai

import "context"

// RunStatus mirrors the assistant backend's run lifecycle.
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Terminal reports whether the run will not change status anymore.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// Message is one assistant-thread message as seen by the bridge.
// Kind carries the backend's content type ("text", "image_file", ...).
type Message struct {
	Kind string
	Text string
}

const KindText = "text"

// Assistant — the external intelligence; knows nothing about LINE or the DB.
type Assistant interface {
	CreateThread(ctx context.Context) (string, error)

	// FetchThread distinguishes three outcomes: the thread exists
	// (true, nil), the backend says it is gone (false, nil), or the
	// call itself failed (false, err).
	FetchThread(ctx context.Context, threadID string) (bool, error)

	AddUserMessage(ctx context.Context, threadID, text string) error

	StartRun(ctx context.Context, threadID string) (runID string, status RunStatus, err error)
	FetchRun(ctx context.Context, threadID, runID string) (RunStatus, error)

	// LatestMessage returns the newest message on the thread.
	LatestMessage(ctx context.Context, threadID string) (Message, error)
}
