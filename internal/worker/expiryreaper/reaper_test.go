package expiryreaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeReservationRepo struct {
	expired [][]string
	errs    []error
	calls   int
}

func (f *fakeReservationRepo) ExpireStale(_ context.Context, _ time.Time) ([]string, error) {
	call := f.calls
	f.calls++
	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	if call < len(f.expired) {
		return f.expired[call], nil
	}
	return nil, nil
}

type fakeMetrics struct {
	reaped int
}

func (f *fakeMetrics) AddLocksReaped(n int) {
	f.reaped += n
}

func newTestReaper(repo *fakeReservationRepo, metrics *fakeMetrics) *Reaper {
	r := NewReaper(repo, time.Second, metrics, nopLogger{})
	r.timeProvider = &fakeTimeProvider{now: testNow}
	return r
}

func TestReaper_Sweep_ExpiresStaleLocks(t *testing.T) {
	repo := &fakeReservationRepo{expired: [][]string{{"res-1", "res-2"}}}
	metrics := &fakeMetrics{}
	r := newTestReaper(repo, metrics)

	r.Sweep(context.Background())

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 2, metrics.reaped)
}

func TestReaper_Sweep_NothingToExpire(t *testing.T) {
	repo := &fakeReservationRepo{}
	metrics := &fakeMetrics{}
	r := newTestReaper(repo, metrics)

	r.Sweep(context.Background())

	assert.Equal(t, 0, metrics.reaped)
}

func TestReaper_Sweep_ErrorDoesNotPanic(t *testing.T) {
	repo := &fakeReservationRepo{errs: []error{errors.New("connection lost")}}
	metrics := &fakeMetrics{}
	r := newTestReaper(repo, metrics)

	// Ошибка прохода только логируется
	r.Sweep(context.Background())

	assert.Equal(t, 0, metrics.reaped)
}

func TestReaper_Run_StopsOnContextCancel(t *testing.T) {
	repo := &fakeReservationRepo{}
	r := newTestReaper(repo, &fakeMetrics{})
	r.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Даем reaper-у сделать хотя бы один проход
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}

	assert.GreaterOrEqual(t, repo.calls, 1)
}

func TestNewReaper_DefaultInterval(t *testing.T) {
	r := NewReaper(&fakeReservationRepo{}, 0, &fakeMetrics{}, nopLogger{})
	assert.Equal(t, DefaultInterval, r.interval)
}
