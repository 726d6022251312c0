package find_available_tables

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_available_tables: invalid input data")

	// ErrWindowInPast возвращается, когда запрошенное окно уже в прошлом
	ErrWindowInPast = errors.New("find_available_tables: requested window is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_available_tables: internal error")
)
