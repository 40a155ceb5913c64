package line

import "context"

// UserThread binds one LINE user to one assistant-backend thread.
type UserThread struct {
	ID             int64
	LineUserID     string
	OpenAIThreadID string
	CreatedAt      int64
	UpdatedAt      int64
}

// MessageEvent is the part of a LINE webhook event the bridge acts on.
type MessageEvent struct {
	ReplyToken string
	UserID     string
	Text       string
}

// Outbound sends replies back through the messaging platform.
type Outbound interface {
	ReplyText(ctx context.Context, replyToken string, text string) error
}

// Repo — persistence for the user→thread mapping.
type Repo interface {
	// GetThread reports found=false on a missing mapping, not an error.
	GetThread(ctx context.Context, lineUserID string) (threadID string, found bool, err error)
	SaveThread(ctx context.Context, lineUserID, threadID string) error
	DeleteThread(ctx context.Context, lineUserID string) error
}

// Service — per-message orchestration.
type Service interface {
	HandleMessage(ctx context.Context, ev MessageEvent) error
}
