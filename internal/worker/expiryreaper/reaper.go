package expiryreaper

import (
	"context"
	"time"
)

// DefaultInterval период между проходами reaper-а
// Reaper - страховка для аналитики и чистоты данных: корректность брони
// от него не зависит, истекшие блокировки и так не блокируют (lazy expiry)
const DefaultInterval = 30 * time.Second

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ExpireStale(ctx context.Context, now time.Time) ([]string, error)
}

// Metrics интерфейс метрик reaper-а
type Metrics interface {
	AddLocksReaped(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}

// Reaper фоновый процесс, переводящий истекшие блокировки в статус expired
type Reaper struct {
	reservationRepo ReservationRepository
	interval        time.Duration
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewReaper создает новый экземпляр reaper-а
// При interval <= 0 используется DefaultInterval
func NewReaper(
	reservationRepo ReservationRepository,
	interval time.Duration,
	metrics Metrics,
	logger Logger,
) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reaper{
		reservationRepo: reservationRepo,
		interval:        interval,
		timeProvider:    &realTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Run запускает цикл reaper-а и блокируется до отмены контекста
// Ошибки отдельных проходов логируются и не останавливают цикл
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("expiryreaper: started, interval=%s", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("expiryreaper: stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход: помечает все истекшие блокировки как expired
// Одна условная запись в хранилище, без построчных гонок с confirm:
// блокировка, которую успели подтвердить, под условие не попадает
func (r *Reaper) Sweep(ctx context.Context) {
	now := r.timeProvider.Now()

	expired, err := r.reservationRepo.ExpireStale(ctx, now)
	if err != nil {
		r.logger.Error("expiryreaper: sweep failed: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	r.metrics.AddLocksReaped(len(expired))
	r.logger.Info("expiryreaper: expired %d stale locks: %v", len(expired), expired)
}
