package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionConfigByKind(t *testing.T) {
	t.Run("delete message", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionDeleteMessage, []byte(`{"notify_author": true, "warning_text": "sem spam, {nome}"}`))
		require.NoError(t, err)
		deleteCfg, ok := cfg.(*DeleteMessageConfig)
		require.True(t, ok)
		assert.Equal(t, ActionDeleteMessage, cfg.Kind())
		assert.True(t, deleteCfg.NotifyAuthor)
		assert.Equal(t, "sem spam, {nome}", deleteCfg.WarningText)
		assert.Equal(t, ActionSchemaVersion, deleteCfg.SchemaVersion)
	})

	t.Run("send message with explicit fields", func(t *testing.T) {
		raw := []byte(`{"send_mode": "reply", "destination": "same_group", "body": "Oi {nome}", "mention_author": true}`)
		cfg, err := ParseActionConfig(ActionSendMessage, raw)
		require.NoError(t, err)
		sendCfg := cfg.(*SendMessageConfig)
		assert.Equal(t, SendModeReply, sendCfg.SendMode)
		assert.Equal(t, DestinationSameGroup, sendCfg.Destination)
		assert.True(t, sendCfg.MentionAuthor)
	})

	t.Run("send message defaults mode and destination", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionSendMessage, []byte(`{"body": "oi"}`))
		require.NoError(t, err)
		sendCfg := cfg.(*SendMessageConfig)
		assert.Equal(t, SendModeNew, sendCfg.SendMode)
		assert.Equal(t, DestinationSameGroup, sendCfg.Destination)
	})

	t.Run("webhook", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionSendWebhook, []byte(`{"url": "https://hooks.example.com/in", "include_message_payload": true}`))
		require.NoError(t, err)
		hookCfg := cfg.(*SendWebhookConfig)
		assert.Equal(t, "https://hooks.example.com/in", hookCfg.URL)
		assert.True(t, hookCfg.IncludeMessagePayload)
	})

	t.Run("notify admin", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionNotifyAdmin, []byte(`{"message": "alerta em {grupo}"}`))
		require.NoError(t, err)
		adminCfg := cfg.(*NotifyAdminConfig)
		assert.Equal(t, "alerta em {grupo}", adminCfg.Message)
	})

	t.Run("invoke agent", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionInvokeAgent, []byte(`{"agent_id": 42, "reply_in_group": true}`))
		require.NoError(t, err)
		agentCfg := cfg.(*InvokeAgentConfig)
		assert.Equal(t, uint(42), agentCfg.AgentID)
		assert.True(t, agentCfg.ReplyInGroup)
	})
}

func TestParseActionConfigValidation(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseActionConfig(ActionKind("banir_usuario"), []byte(`{}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "banir_usuario")
	})

	t.Run("webhook without url", func(t *testing.T) {
		_, err := ParseActionConfig(ActionSendWebhook, []byte(`{}`))
		require.Error(t, err)
	})

	t.Run("agent without agent_id", func(t *testing.T) {
		_, err := ParseActionConfig(ActionInvokeAgent, []byte(`{"reply_in_group": true}`))
		require.Error(t, err)
	})

	t.Run("unknown send mode", func(t *testing.T) {
		_, err := ParseActionConfig(ActionSendMessage, []byte(`{"send_mode": "broadcast"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broadcast")
	})

	t.Run("unknown destination", func(t *testing.T) {
		_, err := ParseActionConfig(ActionSendMessage, []byte(`{"destination": "todos"}`))
		require.Error(t, err)
	})

	t.Run("empty document only valid where no field is required", func(t *testing.T) {
		cfg, err := ParseActionConfig(ActionDeleteMessage, nil)
		require.NoError(t, err)
		assert.Equal(t, ActionSchemaVersion, cfg.(*DeleteMessageConfig).SchemaVersion)

		_, err = ParseActionConfig(ActionSendWebhook, []byte("null"))
		require.Error(t, err)
	})
}
