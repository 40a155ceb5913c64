package line

import (
	"context"
	"log"
	"time"

	"github.com/linegpt/line-ai-bridge/internal/ai"
)

const (
	// Shown when the run ends in anything but "completed".
	apologyRunFailed = "申し訳ありません。うまく回答できませんでした。しばらくしてからもう一度お試しください。"
	// Shown when the assistant replied with something other than text.
	apologyNotText = "申し訳ありません。テキスト以外の回答には対応していません。"

	queuedPollWait = 5 * time.Second
	activePollWait = 3 * time.Second

	// A run stuck in a non-terminal status must not block a webhook
	// worker forever.
	maxPollAttempts = 100
)

type service struct {
	repo     Repo
	ai       ai.Assistant
	outbound Outbound

	sleep func(time.Duration)
}

func NewService(repo Repo, assistant ai.Assistant, outbound Outbound) Service {
	return &service{
		repo:     repo,
		ai:       assistant,
		outbound: outbound,
		sleep:    time.Sleep,
	}
}

func (s *service) HandleMessage(ctx context.Context, ev MessageEvent) error {
	log.Printf("[svc] userId=%s text=%q", ev.UserID, ev.Text)

	text, err := s.answer(ctx, ev.UserID, ev.Text)
	if err != nil {
		return err
	}

	return s.outbound.ReplyText(ctx, ev.ReplyToken, text)
}

// answer resolves the user's thread, runs the assistant on it and returns
// the reply text, or one of the fixed fallbacks.
func (s *service) answer(ctx context.Context, lineUserID, userMessage string) (string, error) {
	threadID, err := s.resolveThread(ctx, lineUserID)
	if err != nil {
		return "", err
	}

	status, err := s.runAssistant(ctx, threadID, userMessage)
	if err != nil {
		return "", err
	}

	if status != ai.RunCompleted {
		log.Printf("[svc] run did not complete: status=%s", status)
		return apologyRunFailed, nil
	}

	msg, err := s.ai.LatestMessage(ctx, threadID)
	if err != nil {
		return "", err
	}
	if msg.Kind != ai.KindText {
		log.Printf("[svc] unsupported reply kind=%s", msg.Kind)
		return apologyNotText, nil
	}

	return msg.Text, nil
}

// resolveThread returns a currently-valid backend thread for the user,
// repairing the local mapping when the remote thread is gone.
func (s *service) resolveThread(ctx context.Context, lineUserID string) (string, error) {
	threadID, found, err := s.repo.GetThread(ctx, lineUserID)
	if err != nil {
		return "", err
	}

	if found {
		exists, err := s.ai.FetchThread(ctx, threadID)
		if err != nil {
			return "", err
		}
		if exists {
			return threadID, nil
		}

		// Stale mapping: the backend no longer knows this thread.
		log.Printf("[svc] thread %s gone, recreating for userId=%s", threadID, lineUserID)
		if err := s.repo.DeleteThread(ctx, lineUserID); err != nil {
			return "", err
		}
	}

	threadID, err = s.ai.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	if err := s.repo.SaveThread(ctx, lineUserID, threadID); err != nil {
		return "", err
	}

	return threadID, nil
}

// runAssistant appends the user message, starts a run and polls it to a
// terminal status: 5s between polls while queued, 3s once in progress.
func (s *service) runAssistant(ctx context.Context, threadID, userMessage string) (ai.RunStatus, error) {
	if err := s.ai.AddUserMessage(ctx, threadID, userMessage); err != nil {
		return "", err
	}

	runID, status, err := s.ai.StartRun(ctx, threadID)
	if err != nil {
		return "", err
	}

	for attempt := 0; !status.Terminal(); attempt++ {
		if attempt >= maxPollAttempts {
			log.Printf("[svc] giving up on run %s after %d polls, status=%s", runID, attempt, status)
			return status, nil
		}

		if status == ai.RunQueued {
			s.sleep(queuedPollWait)
		} else {
			s.sleep(activePollWait)
		}

		status, err = s.ai.FetchRun(ctx, threadID, runID)
		if err != nil {
			return "", err
		}
	}

	return status, nil
}
