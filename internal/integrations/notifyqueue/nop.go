package notifyqueue

import "context"

// NopPublisher заглушка publisher-а для окружений без RabbitMQ
// События молча отбрасываются
type NopPublisher struct{}

// NewNopPublisher создает новый экземпляр заглушки
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// PublishConfirmed отбрасывает событие подтверждения
func (p *NopPublisher) PublishConfirmed(_ context.Context, _ ReservationConfirmedEvent) error {
	return nil
}

// PublishCancelled отбрасывает событие отмены
func (p *NopPublisher) PublishCancelled(_ context.Context, _ ReservationCancelledEvent) error {
	return nil
}
