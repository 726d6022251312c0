package get_table_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
)

type TableService interface {
	GetSchedule(ctx context.Context, tableID int64, date time.Time) (*models.TableScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
