package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	config "github.com/MLTCorp/sincron-grupos-sub000/configs"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/protocols"
)

// WebhookSenderService POSTs trigger events to user-configured URLs. Any
// non-2xx response is an error; retry policy belongs to the caller.
type WebhookSenderService struct {
	Configs *config.Config
	client  *http.Client
}

var _ protocols.WebhookSender = (*WebhookSenderService)(nil)

func NewWebhookSenderService(configs *config.Config) *WebhookSenderService {
	return &WebhookSenderService{
		Configs: configs,
		client: &http.Client{
			Timeout: time.Duration(configs.OutboundTimeoutSeconds) * time.Second,
		},
	}
}

func (ws *WebhookSenderService) Send(ctx context.Context, url string, payload protocols.WebhookPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", contentTypeJSON)

	resp, err := ws.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
