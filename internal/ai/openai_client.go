package ai

import (
	"context"
	"errors"
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAssistant talks to the OpenAI Assistants API.
type OpenAIAssistant struct {
	client      *openai.Client
	assistantID string
}

func NewOpenAIAssistant(apiKey, orgID, assistantID string) *OpenAIAssistant {
	cfg := openai.DefaultConfig(apiKey)
	if orgID != "" {
		cfg.OrgID = orgID
	}

	return &OpenAIAssistant{
		client:      openai.NewClientWithConfig(cfg),
		assistantID: assistantID,
	}
}

func (c *OpenAIAssistant) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		log.Println("[ai] create thread error:", err)
		return "", err
	}
	return thread.ID, nil
}

func (c *OpenAIAssistant) FetchThread(ctx context.Context, threadID string) (bool, error) {
	_, err := c.client.RetrieveThread(ctx, threadID)
	if err == nil {
		return true, nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return false, nil
	}

	return false, err
}

func (c *OpenAIAssistant) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := c.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	return err
}

func (c *OpenAIAssistant) StartRun(ctx context.Context, threadID string) (string, RunStatus, error) {
	run, err := c.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: c.assistantID,
	})
	if err != nil {
		log.Println("[ai] create run error:", err)
		return "", "", err
	}
	return run.ID, RunStatus(run.Status), nil
}

func (c *OpenAIAssistant) FetchRun(ctx context.Context, threadID, runID string) (RunStatus, error) {
	run, err := c.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return "", err
	}
	return RunStatus(run.Status), nil
}

// LatestMessage asks the backend for the newest message explicitly
// (limit 1, descending) instead of trusting the default list order.
func (c *OpenAIAssistant) LatestMessage(ctx context.Context, threadID string) (Message, error) {
	limit := 1
	order := "desc"

	list, err := c.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return Message{}, err
	}
	if len(list.Messages) == 0 || len(list.Messages[0].Content) == 0 {
		return Message{}, errors.New("ai: thread has no messages")
	}

	content := list.Messages[0].Content[0]
	msg := Message{Kind: content.Type}
	if content.Type == KindText && content.Text != nil {
		msg.Text = content.Text.Value
	}

	return msg, nil
}
