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

type Key struct {
	RemoteJid string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

type WhatsappResponse struct {
	Key              Key    `json:"key"`
	MessageTimestamp string `json:"messageTimestamp"`
	Status           string `json:"status"`
}

type TextPayload struct {
	Number      string   `json:"number"`
	Text        string   `json:"text"`
	Delay       int      `json:"delay"`
	LinkPreview bool     `json:"linkPreview"`
	Quoted      *Quoted  `json:"quoted,omitempty"`
	Mentioned   []string `json:"mentioned,omitempty"`
}

type Quoted struct {
	Key Key `json:"key"`
}

type DeletePayload struct {
	ID          string `json:"id"`
	RemoteJid   string `json:"remoteJid"`
	FromMe      bool   `json:"fromMe"`
	Participant string `json:"participant,omitempty"`
}

const contentTypeJSON = "application/json"

// WhatsappSenderService talks to the Evolution API gateway that owns the
// WhatsApp session. It implements protocols.MessageTransport.
type WhatsappSenderService struct {
	Configs *config.Config
	client  *http.Client
}

var _ protocols.MessageTransport = (*WhatsappSenderService)(nil)

func NewWhatsappSenderService(configs *config.Config) *WhatsappSenderService {
	return &WhatsappSenderService{
		Configs: configs,
		client: &http.Client{
			Timeout: time.Duration(configs.OutboundTimeoutSeconds) * time.Second,
		},
	}
}

func (wss *WhatsappSenderService) sendRequest(ctx context.Context, method, requestUrl string, payloadBytes []byte) (*WhatsappResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestUrl, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", contentTypeJSON)
	req.Header.Add("apikey", wss.Configs.EvolutionAPIKey)

	resp, err := wss.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var whatsappResponse WhatsappResponse
	if err := json.Unmarshal(bodyBytes, &whatsappResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &whatsappResponse, nil
}

func (wss *WhatsappSenderService) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(wss.Configs.EvolutionAPIBaseURL, "/"), path, wss.Configs.EvolutionInstance)
}

func (wss *WhatsappSenderService) SendText(ctx context.Context, chatJID, text string, opts protocols.SendOptions) (string, error) {
	body := TextPayload{
		Number:      chatJID,
		Text:        text,
		Delay:       0,
		LinkPreview: true,
		Mentioned:   opts.Mentions,
	}
	if opts.QuotedMessageID != "" {
		body.Quoted = &Quoted{
			Key: Key{
				RemoteJid: chatJID,
				ID:        opts.QuotedMessageID,
			},
		}
	}

	payloadBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := wss.sendRequest(ctx, http.MethodPost, wss.endpoint("message/sendText"), payloadBytes)
	if err != nil {
		return "", err
	}
	return resp.Key.ID, nil
}

// ForwardMessage re-sends the original message content to another chat. The
// gateway has no first-class forward, so the content snapshot is sent as a
// new message.
func (wss *WhatsappSenderService) ForwardMessage(ctx context.Context, toChatJID string, event *dto.InboundEvent) (string, error) {
	return wss.SendText(ctx, toChatJID, event.Content, protocols.SendOptions{})
}

func (wss *WhatsappSenderService) DeleteMessage(ctx context.Context, chatJID, messageID, participantJID string) error {
	body := DeletePayload{
		ID:          messageID,
		RemoteJid:   chatJID,
		FromMe:      false,
		Participant: participantJID,
	}

	payloadBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = wss.sendRequest(ctx, http.MethodDelete, wss.endpoint("chat/deleteMessageForEveryone"), payloadBytes)
	return err
}
