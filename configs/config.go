package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Environment             string `mapstructure:"ENVIRONMENT" default:"development"`
	RabbitMQUrl             string `mapstructure:"RABBITMQ_URL" default:"localhost"`
	RabbitMQPort            string `mapstructure:"RABBITMQ_PORT" default:"5672"`
	RabbitMQUser            string `mapstructure:"RABBITMQ_USER"`
	RabbitMQPassword        string `mapstructure:"RABBITMQ_PASSWORD"`
	GroupEventsQueue        string `mapstructure:"RABBITMQ_GROUP_EVENTS_QUEUE"`
	GroupEventsExchange     string `mapstructure:"RABBITMQ_GROUP_EVENTS_EXCHANGE"`
	GroupEventsRoutingKey   string `mapstructure:"RABBITMQ_GROUP_EVENTS_ROUTING_KEY"`
	AppDBHost               string `mapstructure:"APP_DB_HOST"`
	AppDBPort               string `mapstructure:"APP_DB_PORT"`
	AppDBName               string `mapstructure:"APP_DB_NAME"`
	AppDBUser               string `mapstructure:"APP_DB_USER"`
	AppDBPassword           string `mapstructure:"APP_DB_PASSWORD"`
	AppDBSSLMode            string `mapstructure:"APP_DB_SSL_MODE"`
	AuditDBHost             string `mapstructure:"AUDIT_DB_HOST"`
	AuditDBPort             string `mapstructure:"AUDIT_DB_PORT"`
	AuditDBName             string `mapstructure:"AUDIT_DB_NAME"`
	AuditDBUser             string `mapstructure:"AUDIT_DB_USER"`
	AuditDBPassword         string `mapstructure:"AUDIT_DB_PASSWORD"`
	AuditDBSSLMode          string `mapstructure:"AUDIT_DB_SSL_MODE"`
	EvolutionAPIBaseURL     string `mapstructure:"EVOLUTION_API_BASE_URL"`
	EvolutionAPIKey         string `mapstructure:"EVOLUTION_API_KEY"`
	EvolutionInstance       string `mapstructure:"EVOLUTION_INSTANCE"`
	AgentAPIBaseURL         string `mapstructure:"AGENT_API_BASE_URL"`
	AgentAPIKey             string `mapstructure:"AGENT_API_KEY"`
	AdminChannelJID         string `mapstructure:"ADMIN_CHANNEL_JID"`
	OutboundTimeoutSeconds  int    `mapstructure:"OUTBOUND_TIMEOUT_SECONDS" default:"15"`
	WebhookBackoffSeconds   int    `mapstructure:"WEBHOOK_BACKOFF_SECONDS" default:"2"`
	DispatchWorkers         int    `mapstructure:"DISPATCH_WORKERS" default:"5"`
	ConsumerWorkers         int    `mapstructure:"CONSUMER_WORKERS" default:"100"`
	ConsumerQueueBufferSize int    `mapstructure:"CONSUMER_QUEUE_BUFFER_SIZE" default:"100"`
}

func LoadConfig(path string) *Config {
	var cfg Config
	viper.SetConfigName("app_config")
	viper.SetConfigType("env")
	viper.AddConfigPath(path)
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		// A missing .env file falls back to plain environment variables;
		// any other read error is fatal.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil
		}
		cfg = Config{
			Environment:             os.Getenv("ENVIRONMENT"),
			RabbitMQUrl:             os.Getenv("RABBITMQ_URL"),
			RabbitMQPort:            os.Getenv("RABBITMQ_PORT"),
			RabbitMQUser:            os.Getenv("RABBITMQ_USER"),
			RabbitMQPassword:        os.Getenv("RABBITMQ_PASSWORD"),
			GroupEventsQueue:        os.Getenv("RABBITMQ_GROUP_EVENTS_QUEUE"),
			GroupEventsExchange:     os.Getenv("RABBITMQ_GROUP_EVENTS_EXCHANGE"),
			GroupEventsRoutingKey:   os.Getenv("RABBITMQ_GROUP_EVENTS_ROUTING_KEY"),
			AppDBHost:               os.Getenv("APP_DB_HOST"),
			AppDBPort:               os.Getenv("APP_DB_PORT"),
			AppDBName:               os.Getenv("APP_DB_NAME"),
			AppDBUser:               os.Getenv("APP_DB_USER"),
			AppDBPassword:           os.Getenv("APP_DB_PASSWORD"),
			AppDBSSLMode:            os.Getenv("APP_DB_SSL_MODE"),
			AuditDBHost:             os.Getenv("AUDIT_DB_HOST"),
			AuditDBPort:             os.Getenv("AUDIT_DB_PORT"),
			AuditDBName:             os.Getenv("AUDIT_DB_NAME"),
			AuditDBUser:             os.Getenv("AUDIT_DB_USER"),
			AuditDBPassword:         os.Getenv("AUDIT_DB_PASSWORD"),
			AuditDBSSLMode:          os.Getenv("AUDIT_DB_SSL_MODE"),
			EvolutionAPIBaseURL:     os.Getenv("EVOLUTION_API_BASE_URL"),
			EvolutionAPIKey:         os.Getenv("EVOLUTION_API_KEY"),
			EvolutionInstance:       os.Getenv("EVOLUTION_INSTANCE"),
			AgentAPIBaseURL:         os.Getenv("AGENT_API_BASE_URL"),
			AgentAPIKey:             os.Getenv("AGENT_API_KEY"),
			AdminChannelJID:         os.Getenv("ADMIN_CHANNEL_JID"),
			OutboundTimeoutSeconds:  intEnv("OUTBOUND_TIMEOUT_SECONDS", 15),
			WebhookBackoffSeconds:   intEnv("WEBHOOK_BACKOFF_SECONDS", 2),
			DispatchWorkers:         intEnv("DISPATCH_WORKERS", 5),
			ConsumerWorkers:         intEnv("CONSUMER_WORKERS", 100),
			ConsumerQueueBufferSize: intEnv("CONSUMER_QUEUE_BUFFER_SIZE", 100),
		}
	} else {
		err = viper.Unmarshal(&cfg)
		if err != nil {
			return nil
		}
	}

	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.OutboundTimeoutSeconds <= 0 {
		cfg.OutboundTimeoutSeconds = 15
	}
	if cfg.WebhookBackoffSeconds <= 0 {
		cfg.WebhookBackoffSeconds = 2
	}
	if cfg.DispatchWorkers <= 0 {
		cfg.DispatchWorkers = 5
	}
	if cfg.ConsumerWorkers <= 0 {
		cfg.ConsumerWorkers = 100
	}
	if cfg.ConsumerQueueBufferSize <= 0 {
		cfg.ConsumerQueueBufferSize = 100
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
