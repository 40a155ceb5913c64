package line

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
)

const invalidSignatureMessage = "Invalid signature. Please check your channel access token/channel secret."

type Handler struct {
	svc           Service
	channelSecret string
}

func NewHandler(svc Service, channelSecret string) *Handler {
	return &Handler{svc: svc, channelSecret: channelSecret}
}

// webhookPayload is the LINE event envelope. Only text message events are
// acted on; everything else (follow, sticker, ...) is ignored.
type webhookPayload struct {
	Events []struct {
		Type       string `json:"type"`
		ReplyToken string `json:"replyToken"`
		Source     struct {
			UserID string `json:"userId"`
		} `json:"source"`
		Message struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"message"`
	} `json:"events"`
}

// HandleWebhook — entry point for LINE deliveries.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	deliveryID := uuid.NewString()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	log.Printf("[line] delivery=%s body=%s", deliveryID, body)

	if !ValidateSignature(h.channelSecret, body, r.Header.Get("X-Line-Signature")) {
		log.Printf("[line] delivery=%s %s", deliveryID, invalidSignatureMessage)
		http.Error(w, invalidSignatureMessage, http.StatusBadRequest)
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	for _, ev := range payload.Events {
		if ev.Type != "message" || ev.Message.Type != "text" {
			continue
		}

		msg := MessageEvent{
			ReplyToken: ev.ReplyToken,
			UserID:     ev.Source.UserID,
			Text:       ev.Message.Text,
		}

		if err := h.svc.HandleMessage(r.Context(), msg); err != nil {
			log.Printf("[line] delivery=%s processing error: %v", deliveryID, err)
			http.Error(w, "processing error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
