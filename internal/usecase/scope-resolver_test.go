package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

const (
	orgID     = uint(7)
	groupJID  = "12036302@g.us"
	otherJID  = "99988877@g.us"
	loneJID   = "55544433@g.us"
	catSuport = uint(1)
	catVendas = uint(2)
)

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func testGroups() map[string]*models.Group {
	return map[string]*models.Group{
		groupJID: {
			JID:            groupJID,
			OrganizationID: orgID,
			Name:           "Clientes VIP",
			Active:         true,
			Memberships: []models.GroupCategory{
				{GroupJID: groupJID, CategoryID: catVendas, Position: 0, Category: models.Category{ID: catVendas, Ordem: 2}},
				{GroupJID: groupJID, CategoryID: catSuport, Position: 1, Category: models.Category{ID: catSuport, Ordem: 1}},
			},
		},
		loneJID: {
			JID:            loneJID,
			OrganizationID: orgID,
			Name:           "Grupo Avulso",
			Active:         true,
		},
	}
}

func newTestResolver(triggers []models.Trigger, transcriptions *fakeTranscriptionRepo) (*ScopeResolver, *fakeTriggerRepo) {
	triggerRepo := &fakeTriggerRepo{triggers: triggers}
	if transcriptions == nil {
		transcriptions = &fakeTranscriptionRepo{}
	}
	return NewScopeResolver(triggerRepo, &fakeGroupRepo{groups: testGroups()}, transcriptions), triggerRepo
}

func TestResolveTriggersScoping(t *testing.T) {
	triggers := []models.Trigger{
		{ID: 1, OrganizationID: orgID, Active: true, Priority: 10, Name: "global"},
		{ID: 2, OrganizationID: orgID, Active: true, Priority: 5, Name: "for group", GroupJID: strPtr(groupJID)},
		{ID: 3, OrganizationID: orgID, Active: true, Priority: 1, Name: "for other group", GroupJID: strPtr(otherJID)},
		{ID: 4, OrganizationID: orgID, Active: true, Priority: 3, Name: "for vendas", CategoryID: uintPtr(catVendas)},
		{ID: 5, OrganizationID: orgID + 1, Active: true, Priority: 0, Name: "other org"},
		{ID: 6, OrganizationID: orgID, Active: false, Priority: 0, Name: "inactive"},
	}
	resolver, _ := newTestResolver(triggers, nil)

	resolved, err := resolver.ResolveTriggers(context.Background(), groupJID)
	require.NoError(t, err)

	names := make([]string, 0, len(resolved))
	for _, trigger := range resolved {
		names = append(names, trigger.Name)
	}
	// Priority ascending: for vendas (3), for group (5), global (10).
	assert.Equal(t, []string{"for vendas", "for group", "global"}, names)
}

func TestResolveTriggersGroupWithoutCategories(t *testing.T) {
	triggers := []models.Trigger{
		{ID: 1, OrganizationID: orgID, Active: true, Priority: 1, Name: "global"},
		{ID: 2, OrganizationID: orgID, Active: true, Priority: 0, Name: "for group", GroupJID: strPtr(groupJID)},
		{ID: 3, OrganizationID: orgID, Active: true, Priority: 0, Name: "for vendas", CategoryID: uintPtr(catVendas)},
	}
	resolver, _ := newTestResolver(triggers, nil)

	resolved, err := resolver.ResolveTriggers(context.Background(), loneJID)
	require.NoError(t, err)

	require.Len(t, resolved, 1)
	assert.Equal(t, "global", resolved[0].Name)
}

func TestResolveTriggersPriorityTieBrokenById(t *testing.T) {
	triggers := []models.Trigger{
		{ID: 9, OrganizationID: orgID, Active: true, Priority: 1, Name: "second"},
		{ID: 2, OrganizationID: orgID, Active: true, Priority: 1, Name: "first"},
	}
	resolver, _ := newTestResolver(triggers, nil)

	resolved, err := resolver.ResolveTriggers(context.Background(), groupJID)
	require.NoError(t, err)

	require.Len(t, resolved, 2)
	assert.Equal(t, uint(2), resolved[0].ID)
	assert.Equal(t, uint(9), resolved[1].ID)
}

func TestResolveTriggersMalformedScope(t *testing.T) {
	triggers := []models.Trigger{
		{ID: 1, OrganizationID: orgID, Active: true, GroupJID: strPtr(groupJID), CategoryID: uintPtr(catVendas)},
	}
	resolver, _ := newTestResolver(triggers, nil)

	_, err := resolver.ResolveTriggers(context.Background(), groupJID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed scope")
}

func TestResolveTriggersDuplicateExcludedUntilActivated(t *testing.T) {
	triggers := []models.Trigger{
		{ID: 1, OrganizationID: orgID, Active: true, Priority: 1, Name: "anti-spam", GroupJID: strPtr(groupJID)},
	}
	resolver, triggerRepo := newTestResolver(triggers, nil)
	ctx := context.Background()

	clone, err := triggerRepo.Duplicate(ctx, 1)
	require.NoError(t, err)
	assert.False(t, clone.Active)
	assert.Equal(t, "anti-spam (cópia)", clone.Name)
	assert.Equal(t, 2, clone.Priority)

	resolved, err := resolver.ResolveTriggers(ctx, groupJID)
	require.NoError(t, err)
	require.Len(t, resolved, 1, "inactive duplicate must not resolve")
	assert.Equal(t, uint(1), resolved[0].ID)

	require.NoError(t, triggerRepo.SetActive(ctx, clone.ID, true))

	resolved, err = resolver.ResolveTriggers(ctx, groupJID)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, uint(1), resolved[0].ID)
	assert.Equal(t, clone.ID, resolved[1].ID)
}

func TestResolveTranscriptionPrecedence(t *testing.T) {
	ctx := context.Background()

	groupConfig := &models.TranscriptionConfig{GroupJID: strPtr(groupJID), Mode: models.TranscriptionModeManual}
	suportConfig := &models.TranscriptionConfig{CategoryID: uintPtr(catSuport), Mode: models.TranscriptionModeAutomatic, Type: models.TranscriptionTypeWithSummary}
	vendasConfig := &models.TranscriptionConfig{CategoryID: uintPtr(catVendas), Mode: models.TranscriptionModeOff}

	t.Run("group-level config wins", func(t *testing.T) {
		resolver, _ := newTestResolver(nil, &fakeTranscriptionRepo{
			byGroup:    map[string]*models.TranscriptionConfig{groupJID: groupConfig},
			byCategory: map[uint]*models.TranscriptionConfig{catSuport: suportConfig, catVendas: vendasConfig},
		})

		resolved, err := resolver.ResolveTranscription(ctx, groupJID)
		require.NoError(t, err)
		assert.Equal(t, models.TranscriptionModeManual, resolved.Mode)
	})

	t.Run("lowest ordem category wins when group has none", func(t *testing.T) {
		// The group's memberships list vendas (ordem 2) before suporte
		// (ordem 1); resolution must follow ordem, not membership order.
		resolver, _ := newTestResolver(nil, &fakeTranscriptionRepo{
			byCategory: map[uint]*models.TranscriptionConfig{catSuport: suportConfig, catVendas: vendasConfig},
		})

		resolved, err := resolver.ResolveTranscription(ctx, groupJID)
		require.NoError(t, err)
		assert.Equal(t, models.TranscriptionModeAutomatic, resolved.Mode)
		assert.Equal(t, models.TranscriptionTypeWithSummary, resolved.Type)
	})

	t.Run("system default when nothing is configured", func(t *testing.T) {
		resolver, _ := newTestResolver(nil, &fakeTranscriptionRepo{})

		resolved, err := resolver.ResolveTranscription(ctx, loneJID)
		require.NoError(t, err)
		assert.Equal(t, models.TranscriptionModeOff, resolved.Mode)
		assert.Equal(t, models.TranscriptionTypePlain, resolved.Type)
	})
}
