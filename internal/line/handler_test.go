package line

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegpt/line-ai-bridge/internal/ai"
)

const testChannelSecret = "test-channel-secret"

const webhookBody = `{
	"destination": "xxx",
	"events": [
		{
			"type": "message",
			"replyToken": "rt-u1",
			"source": {"type": "user", "userId": "U1"},
			"message": {"type": "text", "id": "1", "text": "Hello"}
		}
	]
}`

type recordingService struct {
	events []MessageEvent
	err    error
}

func (s *recordingService) HandleMessage(_ context.Context, ev MessageEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func postWebhook(h *Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/line-bot-webhook/", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	svc := &recordingService{}
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, webhookBody, sign("wrong-secret", []byte(webhookBody)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid signature")
	assert.Empty(t, svc.events, "nothing downstream may run on a bad signature")
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	svc := &recordingService{}
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, webhookBody, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.events)
}

func TestWebhookDispatchesTextEvents(t *testing.T) {
	svc := &recordingService{}
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, webhookBody, sign(testChannelSecret, []byte(webhookBody)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	require.Len(t, svc.events, 1)
	assert.Equal(t, MessageEvent{ReplyToken: "rt-u1", UserID: "U1", Text: "Hello"}, svc.events[0])
}

func TestWebhookIgnoresNonTextEvents(t *testing.T) {
	body := `{"events":[
		{"type":"follow","replyToken":"rt-f","source":{"userId":"U1"}},
		{"type":"message","replyToken":"rt-s","source":{"userId":"U1"},"message":{"type":"sticker"}}
	]}`
	svc := &recordingService{}
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, body, sign(testChannelSecret, []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.events)
}

func TestWebhookReportsProcessingError(t *testing.T) {
	svc := &recordingService{err: assert.AnError}
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, webhookBody, sign(testChannelSecret, []byte(webhookBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// Full path: webhook → signature → resolver → poller → dispatcher.
func TestWebhookEndToEnd(t *testing.T) {
	repo := newFakeRepo()
	assistant := newFakeAssistant(ai.RunQueued, ai.RunInProgress, ai.RunCompleted)
	out := &fakeOutbound{}
	svc, sleeps := newTestService(repo, assistant, out)
	h := NewHandler(svc, testChannelSecret)

	rec := postWebhook(h, webhookBody, sign(testChannelSecret, []byte(webhookBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	assert.Equal(t, 1, assistant.createdThreads)
	assert.Equal(t, "thread-1", repo.threads["U1"])
	assert.Equal(t, []string{"Hello"}, assistant.userMessages)
	assert.Equal(t, 1, assistant.runsStarted)
	assert.Len(t, *sleeps, 2)

	assert.Equal(t, []string{"rt-u1"}, out.tokens)
	assert.Equal(t, []string{"Hi there!"}, out.texts)
}
