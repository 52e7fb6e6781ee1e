package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

var notifyClient = &http.Client{Timeout: 10 * time.Second}

// SendChatNotification posts a reminder message for the given user to
// the chat webhook. A missing webhook URL is an error so callers can
// log and move on.
func SendChatNotification(username string) error {
	url := os.Getenv("CHAT_WEBHOOK_URL")
	if url == "" {
		return fmt.Errorf("CHAT_WEBHOOK_URL is not set")
	}

	payload := map[string]string{
		"text": fmt.Sprintf("Hello %s! You have not visited the library app today. Please visit the app and enjoy reading books to expand your knowledge.", username),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := notifyClient.Post(url, "application/json; charset=UTF-8", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}
	return nil
}
