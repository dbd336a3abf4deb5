package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MessageHandler is called for each inbound user message and returns the
// reply text, or "" for no reply.
type MessageHandler func(userID, text string) string

// StartPolling begins long-polling for Telegram messages. Blocks until ctx is
// cancelled. Replies go to the chat the message arrived on.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler MessageHandler) {
	offset := int64(0)
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=30", t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool     `json:"ok"`
			Result []Update `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			userID := strconv.FormatInt(update.Message.From.ID, 10)
			chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
			log.Printf("[INFO] message from %s: %s", userID, text)
			reply := handler(userID, text)
			if reply != "" {
				if err := t.Send(chatID, reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
}
