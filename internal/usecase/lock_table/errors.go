package lock_table

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("lock_table: invalid input data")

	// ErrTableNotFound возвращается, когда стол не найден
	ErrTableNotFound = errors.New("lock_table: table not found")

	// ErrTableNotAvailable возвращается, когда стол выведен из обслуживания
	ErrTableNotAvailable = errors.New("lock_table: table is not available for reservations")

	// ErrCapacityExceeded возвращается, когда гостей больше, чем вмещает стол
	ErrCapacityExceeded = errors.New("lock_table: party size exceeds table capacity")

	// ErrWindowInPast возвращается, когда запрошенное окно уже в прошлом
	ErrWindowInPast = errors.New("lock_table: requested window is in the past")

	// ErrWindowConflict возвращается, когда окно занято активным бронированием
	// Гонка проиграна: клиент выбирает другой стол или время, без ожидания
	ErrWindowConflict = errors.New("lock_table: window is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("lock_table: internal error")
)
