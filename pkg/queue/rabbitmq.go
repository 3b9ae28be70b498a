package queue

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	config "github.com/MLTCorp/sincron-grupos-sub000/configs"
	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
)

type QueueConfig struct {
	Name       string
	BufferSize int
	Consumer   string
}

type registeredQueue struct {
	config QueueConfig
	out    chan *amqp.Delivery
}

type RabbitMQ struct {
	Channel    *amqp.Channel
	Connection *amqp.Connection
	Configs    *config.Config

	mu     sync.Mutex
	queues []*registeredQueue
}

func NewRabbitMQ(configs *config.Config) *RabbitMQ {
	return &RabbitMQ{
		Configs: configs,
	}
}

// AddQueue registers a queue to be declared, bound and consumed on Connect.
// The returned channel receives every delivery for that queue.
func (rmq *RabbitMQ) AddQueue(cfg QueueConfig) (<-chan *amqp.Delivery, error) {
	rmq.mu.Lock()
	defer rmq.mu.Unlock()

	if cfg.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	q := &registeredQueue{
		config: cfg,
		out:    make(chan *amqp.Delivery, cfg.BufferSize),
	}
	rmq.queues = append(rmq.queues, q)
	return q.out, nil
}

func (rmq *RabbitMQ) Connect() error {
	logger := logging.GetLogger("rabbitmq")

	var connectionString string
	if rmq.Configs.Environment == "development" || rmq.Configs.Environment == "staging" {
		connectionString = fmt.Sprintf("amqp://%s:%s@%s:%s", rmq.Configs.RabbitMQUser, rmq.Configs.RabbitMQPassword, rmq.Configs.RabbitMQUrl, rmq.Configs.RabbitMQPort)
	} else {
		connectionString = fmt.Sprintf("amqps://%s:%s@%s:%s", rmq.Configs.RabbitMQUser, rmq.Configs.RabbitMQPassword, rmq.Configs.RabbitMQUrl, rmq.Configs.RabbitMQPort)
	}

	connection, err := amqp.Dial(connectionString)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	rmq.Connection = connection

	channel, err := rmq.Connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	rmq.Channel = channel

	if err := rmq.setup(); err != nil {
		return fmt.Errorf("failed to set up RabbitMQ: %w", err)
	}

	rmq.mu.Lock()
	defer rmq.mu.Unlock()
	for _, q := range rmq.queues {
		if err := rmq.consume(q); err != nil {
			return fmt.Errorf("failed to start consumer for %s: %w", q.config.Name, err)
		}
	}

	logger.Info().Msg("connection established")
	return nil
}

func (rmq *RabbitMQ) setup() error {
	if err := rmq.DeclareExchange(rmq.Configs.GroupEventsExchange, "direct"); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", rmq.Configs.GroupEventsExchange, err)
	}

	rmq.mu.Lock()
	defer rmq.mu.Unlock()
	for _, q := range rmq.queues {
		if err := rmq.DeclareQueue(q.config.Name); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.config.Name, err)
		}
		if err := rmq.BindQueue(rmq.Configs.GroupEventsExchange, rmq.Configs.GroupEventsRoutingKey, q.config.Name); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", q.config.Name, err)
		}
	}

	return nil
}

func (rmq *RabbitMQ) consume(q *registeredQueue) error {
	msgs, err := rmq.Channel.Consume(
		q.config.Name,
		q.config.Consumer,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume messages: %w", err)
	}

	go func() {
		for msg := range msgs {
			msg := msg
			q.out <- &msg
		}
		close(q.out)
	}()

	return nil
}

func (rmq *RabbitMQ) DeclareExchange(exchange, exType string) error {
	return rmq.Channel.ExchangeDeclare(
		exchange,
		exType,
		true,
		false,
		false,
		false,
		nil,
	)
}

func (rmq *RabbitMQ) DeclareQueue(queue string) error {
	_, err := rmq.Channel.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

func (rmq *RabbitMQ) BindQueue(exchange, routingKey, queue string) error {
	return rmq.Channel.QueueBind(
		queue,
		routingKey,
		exchange,
		false,
		nil,
	)
}

func (rmq *RabbitMQ) Close() error {
	if rmq.Channel != nil {
		if err := rmq.Channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
		rmq.Channel = nil
	}
	if rmq.Connection != nil {
		if err := rmq.Connection.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		rmq.Connection = nil
	}
	return nil
}
