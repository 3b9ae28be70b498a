package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MLTCorp/sincron-grupos-sub000/internal/application/dto"
	"github.com/MLTCorp/sincron-grupos-sub000/internal/domain/models"
)

// ConditionEvaluator decides whether a trigger's condition set matches an
// inbound event.
type ConditionEvaluator struct{}

func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{}
}

// Matches evaluates the trigger against the event. A returned error means a
// rule itself is malformed (bad regex, unreadable condition document); the
// trigger then counts as non-matching and the caller records the problem.
func (ce *ConditionEvaluator) Matches(trigger *models.Trigger, event *dto.InboundEvent) (bool, error) {
	if trigger.EventType != models.EventMessageAny && trigger.EventType != event.Type {
		return false, nil
	}

	conditions, err := trigger.ConditionSet()
	if err != nil {
		return false, err
	}

	// No conditions: fires for every event of the configured type.
	if conditions.Empty() {
		return true, nil
	}

	for i, rule := range conditions.Regras {
		matched, err := ce.evaluateRule(rule, event)
		if err != nil {
			return false, fmt.Errorf("rule %d (%s %s): %w", i, rule.Campo, rule.Operador, err)
		}
		if conditions.Operador == models.ConditionOr && matched {
			return true, nil
		}
		if conditions.Operador == models.ConditionAnd && !matched {
			return false, nil
		}
	}

	// AND: every rule passed. OR: none did.
	return conditions.Operador == models.ConditionAnd, nil
}

func (ce *ConditionEvaluator) evaluateRule(rule models.Rule, event *dto.InboundEvent) (bool, error) {
	value := event.Field(rule.Campo)

	switch rule.Operador {
	case models.OperatorContains:
		return strings.Contains(value, rule.Valor), nil
	case models.OperatorNotContains:
		return !strings.Contains(value, rule.Valor), nil
	case models.OperatorEquals:
		return value == rule.Valor, nil
	case models.OperatorStartsWith:
		return strings.HasPrefix(value, rule.Valor), nil
	case models.OperatorEndsWith:
		return strings.HasSuffix(value, rule.Valor), nil
	case models.OperatorRegex:
		pattern, err := regexp.Compile(rule.Valor)
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", rule.Valor, err)
		}
		return pattern.MatchString(value), nil
	default:
		return false, fmt.Errorf("unknown rule operator %q", rule.Operador)
	}
}
