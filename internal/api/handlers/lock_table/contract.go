package lock_table

import (
	"context"

	lockTable "github.com/m04kA/SMC-ReservationService/internal/usecase/lock_table"
)

type LockTableUseCase interface {
	Execute(ctx context.Context, req *lockTable.Request) (*lockTable.Response, error)
}

// Metrics интерфейс доменных метрик блокировок
type Metrics interface {
	IncLockAcquired()
	IncLockConflict()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
