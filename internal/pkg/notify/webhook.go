package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	contentTypeHeaderKey = "Content-Type"
	jsonValue            = "application/json"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type webhookPayload struct {
	Content string `json:"content"`
}

// WebhookNotifier posts {"content": message} to a Discord style webhook.
type WebhookNotifier struct {
	URL  string
	HTTP HTTPClient
}

func (n *WebhookNotifier) Name() string {
	return "webhook"
}

func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("%w: error marshalling webhook payload %w", ErrDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: error creating http request %w", ErrDispatch, err)
	}

	req.Header.Set(contentTypeHeaderKey, jsonValue)

	resp, err := n.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: error performing http request %w", ErrDispatch, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: webhook returned status %d: %s", ErrDispatch, resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}
