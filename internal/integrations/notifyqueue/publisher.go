package notifyqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// QueueReservationConfirmed очередь событий подтверждения
	QueueReservationConfirmed = "reservation.confirmed"

	// QueueReservationCancelled очередь событий отмены
	QueueReservationCancelled = "reservation.cancelled"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в RabbitMQ
// Соединение устанавливается на каждую публикацию: объём событий мал,
// а короткоживущее соединение избавляет от reconnect-логики
type Publisher struct {
	url string
	log Logger
}

// NewPublisher создает новый экземпляр publisher-а
func NewPublisher(url string, log Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// PublishConfirmed публикует событие подтверждения бронирования
func (p *Publisher) PublishConfirmed(ctx context.Context, event ReservationConfirmedEvent) error {
	return p.publish(ctx, QueueReservationConfirmed, event)
}

// PublishCancelled публикует событие отмены бронирования
func (p *Publisher) PublishCancelled(ctx context.Context, event ReservationCancelledEvent) error {
	return p.publish(ctx, QueueReservationCancelled, event)
}

// publish публикует событие в указанную очередь
// Очередь объявляется идемпотентно как durable, сообщения помечаются persistent
func (p *Publisher) publish(ctx context.Context, queue string, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrPublishFailed, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %v", ErrPublishFailed, err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("%w: declare queue %s: %v", ErrPublishFailed, queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublishFailed, err)
	}

	err = ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: publish to %s: %v", ErrPublishFailed, queue, err)
	}

	p.log.Info("notifyqueue: published event to %s", queue)
	return nil
}
