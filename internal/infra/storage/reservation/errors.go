package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrWindowConflict возвращается, когда условная вставка не прошла:
	// на столе уже есть активное бронирование с пересекающимся окном
	ErrWindowConflict = errors.New("reservation.repository: overlapping active reservation exists")

	// ErrNoActiveLock возвращается, когда условное обновление locked → confirmed
	// не прошло: строка больше не в статусе locked с действующим TTL
	ErrNoActiveLock = errors.New("reservation.repository: no active lock for reservation")

	// ErrNotCancellable возвращается, когда условное обновление → cancelled
	// не прошло: строка не в статусе locked или confirmed
	ErrNotCancellable = errors.New("reservation.repository: reservation is not in a cancellable state")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
