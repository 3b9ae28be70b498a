package usecase

import (
	"context"
	"fmt"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/repositories"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

// ScopeResolver answers "which triggers apply to this group" and, through
// ResolveSetting, "which scoped override wins for this group".
type ScopeResolver struct {
	triggers       repositories.TriggerRepositoryInterface
	groups         repositories.GroupRepositoryInterface
	transcriptions repositories.TranscriptionConfigRepositoryInterface
}

func NewScopeResolver(
	triggers repositories.TriggerRepositoryInterface,
	groups repositories.GroupRepositoryInterface,
	transcriptions repositories.TranscriptionConfigRepositoryInterface,
) *ScopeResolver {
	return &ScopeResolver{
		triggers:       triggers,
		groups:         groups,
		transcriptions: transcriptions,
	}
}

// ResolveForGroup returns the group and its applicable active triggers,
// ordered by priority ascending with ties broken by id. Applicable means:
// scoped to the group itself, to one of the group's categories, or
// organization-wide.
func (sr *ScopeResolver) ResolveForGroup(ctx context.Context, groupJID string) (*models.Group, []models.Trigger, error) {
	group, err := sr.groups.FindByJID(ctx, groupJID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load group %s: %w", groupJID, err)
	}

	candidates, err := sr.triggers.ListActiveByOrganization(ctx, group.OrganizationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list triggers for organization %d: %w", group.OrganizationID, err)
	}

	categoryIDs := group.CategoryIDs()
	applicable := make([]models.Trigger, 0, len(candidates))
	for _, trigger := range candidates {
		scope, err := trigger.Scope()
		if err != nil {
			return nil, nil, fmt.Errorf("trigger %d has malformed scope: %w", trigger.ID, err)
		}
		if scope.AppliesTo(groupJID, categoryIDs) {
			applicable = append(applicable, trigger)
		}
	}

	return group, applicable, nil
}

// ResolveTriggers is ResolveForGroup without the group, for callers that
// only need the trigger list.
func (sr *ScopeResolver) ResolveTriggers(ctx context.Context, groupJID string) ([]models.Trigger, error) {
	_, triggers, err := sr.ResolveForGroup(ctx, groupJID)
	return triggers, err
}

// ResolveTranscription applies the shared override precedence to the
// group's transcription settings.
func (sr *ScopeResolver) ResolveTranscription(ctx context.Context, groupJID string) (models.TranscriptionConfig, error) {
	group, err := sr.groups.FindByJID(ctx, groupJID)
	if err != nil {
		return models.TranscriptionConfig{}, fmt.Errorf("failed to load group %s: %w", groupJID, err)
	}
	return ResolveSetting(ctx, group, sr.transcriptions.FindByGroup, sr.transcriptions.FindByCategory, models.DefaultTranscriptionConfig())
}

// ResolveSetting is the one override-resolution algorithm every scoped
// per-group setting goes through: a group-scoped record wins; otherwise the
// group's categories are checked in `ordem` ascending and the first record
// found wins; otherwise the fallback applies. Fetchers return (nil, nil)
// for "no record at this scope".
func ResolveSetting[T any](
	ctx context.Context,
	group *models.Group,
	forGroup func(ctx context.Context, groupJID string) (*T, error),
	forCategory func(ctx context.Context, categoryID uint) (*T, error),
	fallback T,
) (T, error) {
	record, err := forGroup(ctx, group.JID)
	if err != nil {
		return fallback, fmt.Errorf("failed to resolve group-level setting for %s: %w", group.JID, err)
	}
	if record != nil {
		return *record, nil
	}

	for _, category := range group.CategoriesByOrdem() {
		record, err := forCategory(ctx, category.ID)
		if err != nil {
			return fallback, fmt.Errorf("failed to resolve category-level setting for %d: %w", category.ID, err)
		}
		if record != nil {
			return *record, nil
		}
	}

	return fallback, nil
}
