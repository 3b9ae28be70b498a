package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/MLTCorp/sincron-grupos-sub000/configs"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/protocols"
)

type agentCompletionRequest struct {
	AgentID  uint   `json:"agent_id"`
	GroupJID string `json:"group_id"`
	Sender   string `json:"sender"`
	Content  string `json:"content"`
}

type agentCompletionResponse struct {
	Reply string `json:"reply"`
}

// AgentService forwards events to the AI agent completion API. Prompting,
// model selection and chat history live on the other side of this call.
type AgentService struct {
	Configs *config.Config
	client  *http.Client
}

var _ protocols.AgentInvoker = (*AgentService)(nil)

func NewAgentService(configs *config.Config) *AgentService {
	return &AgentService{
		Configs: configs,
		client: &http.Client{
			Timeout: time.Duration(configs.OutboundTimeoutSeconds) * time.Second,
		},
	}
}

func (as *AgentService) Invoke(ctx context.Context, agentID uint, event *dto.InboundEvent) (string, error) {
	requestUrl := fmt.Sprintf("%s/agents/%d/completions", strings.TrimSuffix(as.Configs.AgentAPIBaseURL, "/"), agentID)

	body := agentCompletionRequest{
		AgentID:  agentID,
		GroupJID: event.GroupJID,
		Sender:   event.SenderJID,
		Content:  event.Content,
	}
	payloadBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestUrl, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", contentTypeJSON)
	req.Header.Add("Authorization", "Bearer "+as.Configs.AgentAPIKey)

	resp, err := as.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to invoke agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("agent API returned status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var completion agentCompletionResponse
	if err := json.Unmarshal(bodyBytes, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal agent response: %w", err)
	}
	return completion.Reply, nil
}
