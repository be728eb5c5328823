package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

const publishTimeout = 5 * time.Second

// AMQPConfig holds the broker settings
type AMQPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	Exchange string
}

// AMQPPublisher mirrors kiosk events to a RabbitMQ exchange so back-office
// consumers can follow what the unit is doing. Publish never blocks the
// caller; the marshalled event is handed to a dispatch goroutine.
type AMQPPublisher struct {
	cfg    AMQPConfig
	logger coreport.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex

	queue chan coreport.Event
	done  chan struct{}
}

// NewAMQPPublisher connects to the broker and starts the dispatch goroutine
func NewAMQPPublisher(cfg AMQPConfig, logger coreport.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan coreport.Event, 64),
		done:   make(chan struct{}),
	}

	if err := p.connect(); err != nil {
		return nil, err
	}

	go p.dispatch()

	return p, nil
}

func (p *AMQPPublisher) connect() error {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		p.cfg.User, p.cfg.Password, p.cfg.Host, p.cfg.Port, p.cfg.VHost)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.mu.Lock()
	p.conn = conn
	p.channel = ch
	p.mu.Unlock()

	p.logger.Info("Connected to event broker", map[string]any{
		"host":     p.cfg.Host,
		"exchange": p.cfg.Exchange,
	})

	return nil
}

// Publish queues the event for dispatch, dropping it when the queue is full
func (p *AMQPPublisher) Publish(event coreport.Event) {
	select {
	case p.queue <- event:
	default:
		p.logger.Warn("Event dropped, broker queue full", map[string]any{
			"kind": string(event.Kind),
		})
	}
}

func (p *AMQPPublisher) dispatch() {
	for {
		select {
		case <-p.done:
			return
		case event := <-p.queue:
			p.send(event)
		}
	}
}

func (p *AMQPPublisher) send(event coreport.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", map[string]any{
			"kind":  string(event.Kind),
			"error": err.Error(),
		})
		return
	}

	p.mu.Lock()
	channel := p.channel
	p.mu.Unlock()
	if channel == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		"kiosk."+string(event.Kind), // routing key
		false,                       // mandatory
		false,                       // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.At,
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish event", map[string]any{
			"kind":  string(event.Kind),
			"error": err.Error(),
		})
	}
}

// Close stops the dispatcher and tears the connection down
func (p *AMQPPublisher) Close() {
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}

	p.logger.Info("Event broker connection closed", nil)
}
