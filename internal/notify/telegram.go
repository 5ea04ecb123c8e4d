package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Telegram sends reminder notifications through the Telegram bot API.
// When not configured (missing token or chat id) every send fails
// without reaching the network.
type Telegram struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegram(apiBase, botToken, chatID string) *Telegram {
	if botToken == "" {
		log.Println("[INFO] Telegram bot token not set, notifications disabled")
	}
	if chatID == "" {
		log.Println("[INFO] Telegram chat id not set, notifications disabled")
	}
	return &Telegram{
		apiBase:  apiBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage posts a single HTML message to the configured chat.
func (t *Telegram) SendMessage(message string) error {
	if t.botToken == "" || t.chatID == "" {
		return fmt.Errorf("telegram is not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API rejected the message")
	}
	return nil
}

// SendEventReminder formats and sends an event reminder.
func (t *Telegram) SendEventReminder(title string, eventStart time.Time, minutesBefore int, location string) error {
	return t.SendMessage(FormatEventReminder(title, eventStart, minutesBefore, location))
}

// SendInternalReminder formats and sends an internal reminder.
func (t *Telegram) SendInternalReminder(title string, reminderAt time.Time, minutesBefore int, description string) error {
	return t.SendMessage(FormatInternalReminder(title, reminderAt, minutesBefore, description))
}
