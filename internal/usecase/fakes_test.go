package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/protocols"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

type fakeTriggerRepo struct {
	triggers []models.Trigger
	err      error
}

func (f *fakeTriggerRepo) FindById(ctx context.Context, id uint) (*models.Trigger, error) {
	for i := range f.triggers {
		if f.triggers[i].ID == id {
			return &f.triggers[i], nil
		}
	}
	return nil, fmt.Errorf("trigger %d not found", id)
}

func (f *fakeTriggerRepo) ListActiveByOrganization(ctx context.Context, organizationID uint) ([]models.Trigger, error) {
	if f.err != nil {
		return nil, f.err
	}
	var active []models.Trigger
	for _, t := range f.triggers {
		if t.OrganizationID == organizationID && t.Active {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority < active[j].Priority
		}
		return active[i].ID < active[j].ID
	})
	return active, nil
}

func (f *fakeTriggerRepo) SetActive(ctx context.Context, id uint, active bool) error {
	for i := range f.triggers {
		if f.triggers[i].ID == id {
			f.triggers[i].Active = active
			return nil
		}
	}
	return fmt.Errorf("trigger %d not found", id)
}

func (f *fakeTriggerRepo) Duplicate(ctx context.Context, id uint) (*models.Trigger, error) {
	original, err := f.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := *original
	clone.ID = uint(len(f.triggers) + 1)
	clone.Name = original.Name + " (cópia)"
	clone.Priority = original.Priority + 1
	clone.Active = false
	f.triggers = append(f.triggers, clone)
	return &clone, nil
}

type fakeGroupRepo struct {
	groups map[string]*models.Group
	err    error
}

func (f *fakeGroupRepo) FindByJID(ctx context.Context, jid string) (*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	group, ok := f.groups[jid]
	if !ok {
		return nil, fmt.Errorf("group %s not found", jid)
	}
	return group, nil
}

type fakeTranscriptionRepo struct {
	byGroup    map[string]*models.TranscriptionConfig
	byCategory map[uint]*models.TranscriptionConfig
}

func (f *fakeTranscriptionRepo) FindByGroup(ctx context.Context, groupJID string) (*models.TranscriptionConfig, error) {
	return f.byGroup[groupJID], nil
}

func (f *fakeTranscriptionRepo) FindByCategory(ctx context.Context, categoryID uint) (*models.TranscriptionConfig, error) {
	return f.byCategory[categoryID], nil
}

type fakeAgentRepo struct {
	agents map[uint]*models.Agent
}

func (f *fakeAgentRepo) FindById(ctx context.Context, id uint) (*models.Agent, error) {
	agent, ok := f.agents[id]
	if !ok {
		return nil, fmt.Errorf("agent %d not found", id)
	}
	return agent, nil
}

// fakeRecordRepo honors the (trigger_id, message_id) unique index the real
// repository relies on.
type fakeRecordRepo struct {
	mu      sync.Mutex
	records []models.ExecutionRecord
	saveErr error
}

func (f *fakeRecordRepo) Save(ctx context.Context, record *models.ExecutionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if record.MessageID != "" {
		for _, existing := range f.records {
			if existing.TriggerID == record.TriggerID && existing.MessageID == record.MessageID {
				return nil
			}
		}
	}
	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRecordRepo) ListByTrigger(ctx context.Context, triggerID uint) ([]models.ExecutionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ExecutionRecord
	for _, r := range f.records {
		if r.TriggerID == triggerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListByGroup(ctx context.Context, groupJID string) ([]models.ExecutionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ExecutionRecord
	for _, r := range f.records {
		if r.GroupJID == groupJID {
			out = append(out, r)
		}
	}
	return out, nil
}

type sentMessage struct {
	ChatJID string
	Text    string
	Opts    protocols.SendOptions
}

type deletedMessage struct {
	ChatJID     string
	MessageID   string
	Participant string
}

type fakeTransport struct {
	mu        sync.Mutex
	sent      []sentMessage
	forwarded []sentMessage
	deleted   []deletedMessage
	sendErrs  map[string]error // keyed by chat JID
	deleteErr error
	nextID    int
}

func (f *fakeTransport) SendText(ctx context.Context, chatJID, text string, opts protocols.SendOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErrs[chatJID]; err != nil {
		return "", err
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatJID: chatJID, Text: text, Opts: opts})
	return fmt.Sprintf("MSG%d", f.nextID), nil
}

func (f *fakeTransport) ForwardMessage(ctx context.Context, toChatJID string, event *dto.InboundEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErrs[toChatJID]; err != nil {
		return "", err
	}
	f.nextID++
	f.forwarded = append(f.forwarded, sentMessage{ChatJID: toChatJID, Text: event.Content})
	return fmt.Sprintf("MSG%d", f.nextID), nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, chatJID, messageID, participantJID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, deletedMessage{ChatJID: chatJID, MessageID: messageID, Participant: participantJID})
	return nil
}

type fakeWebhookSender struct {
	mu       sync.Mutex
	calls    []protocols.WebhookPayload
	failNext int // fail the next N calls
}

func (f *fakeWebhookSender) Send(ctx context.Context, url string, payload protocols.WebhookPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, payload)
	if f.failNext > 0 {
		f.failNext--
		return fmt.Errorf("connection refused")
	}
	return nil
}

type fakeAgentInvoker struct {
	reply   string
	err     error
	invoked int
}

func (f *fakeAgentInvoker) Invoke(ctx context.Context, agentID uint, event *dto.InboundEvent) (string, error) {
	f.invoked++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
