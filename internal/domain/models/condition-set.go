package models

import (
	"encoding/json"
	"fmt"
)

const ConditionSchemaVersion = 1

const (
	ConditionAnd = "AND"
	ConditionOr  = "OR"
)

// Rule operators, fixed vocabulary. Values match the persisted JSON.
const (
	OperatorContains    = "contem"
	OperatorNotContains = "nao_contem"
	OperatorEquals      = "igual"
	OperatorStartsWith  = "comeca_com"
	OperatorEndsWith    = "termina_com"
	OperatorRegex       = "regex"
)

// Rule fields an event exposes for matching.
const (
	FieldContentText = "conteudo_texto"
	FieldSender      = "remetente"
	FieldMessageType = "tipo_mensagem"
)

type Rule struct {
	Campo    string `json:"campo"`
	Operador string `json:"operador"`
	Valor    string `json:"valor"`
}

// ConditionSet is a trigger's persisted `condicoes` document. Rules
// targeting the same field stay independent entries; any grouping the
// console does is presentation only.
type ConditionSet struct {
	SchemaVersion int    `json:"schema_version"`
	Operador      string `json:"operador"`
	Regras        []Rule `json:"regras"`
}

var validRuleOperators = map[string]bool{
	OperatorContains:    true,
	OperatorNotContains: true,
	OperatorEquals:      true,
	OperatorStartsWith:  true,
	OperatorEndsWith:    true,
	OperatorRegex:       true,
}

// ParseConditionSet decodes a persisted condition document. Documents
// written before schema versioning default to version 1. An empty or null
// document is a valid empty condition set (fires for every event of the
// trigger's type).
func ParseConditionSet(raw []byte) (*ConditionSet, error) {
	set := &ConditionSet{
		SchemaVersion: ConditionSchemaVersion,
		Operador:      ConditionAnd,
	}
	if len(raw) == 0 || string(raw) == "null" {
		return set, nil
	}

	var doc struct {
		SchemaVersion *int   `json:"schema_version"`
		Operador      string `json:"operador"`
		Regras        []Rule `json:"regras"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode condition set: %w", err)
	}

	if doc.SchemaVersion != nil {
		set.SchemaVersion = *doc.SchemaVersion
	}
	if doc.Operador != "" {
		if doc.Operador != ConditionAnd && doc.Operador != ConditionOr {
			return nil, fmt.Errorf("unknown condition operator %q", doc.Operador)
		}
		set.Operador = doc.Operador
	}
	for _, rule := range doc.Regras {
		if !validRuleOperators[rule.Operador] {
			return nil, fmt.Errorf("unknown rule operator %q", rule.Operador)
		}
	}
	set.Regras = doc.Regras

	return set, nil
}

func (cs *ConditionSet) Empty() bool {
	return len(cs.Regras) == 0
}
