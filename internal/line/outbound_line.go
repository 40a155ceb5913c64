package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

type LineOutbound struct {
	baseURL string
	token   string // channel access token
	client  *http.Client
}

func NewLineOutbound(accessToken string) *LineOutbound {
	return &LineOutbound{
		baseURL: "https://api.line.me",
		token:   accessToken,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ReplyText answers an inbound event with a single text message. The reply
// token is single-use and short-lived; there is no retry.
func (c *LineOutbound) ReplyText(ctx context.Context, replyToken string, text string) error {
	return c.send(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages": []map[string]any{
			{"type": "text", "text": text},
		},
	})
}

func (c *LineOutbound) send(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.New(
			"line api error: " +
				resp.Status +
				" body=" + string(respBody),
		)
	}

	return nil
}
