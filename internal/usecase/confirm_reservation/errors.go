package confirm_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("confirm_reservation: reservation not found")

	// ErrAccessDenied возвращается при попытке подтвердить чужую блокировку
	ErrAccessDenied = errors.New("confirm_reservation: access denied")

	// ErrLockExpired возвращается, когда TTL блокировки истек
	ErrLockExpired = errors.New("confirm_reservation: lock has expired")

	// ErrAlreadyConfirmed возвращается при повторном подтверждении
	ErrAlreadyConfirmed = errors.New("confirm_reservation: reservation already confirmed")

	// ErrAlreadyCancelled возвращается при подтверждении отмененного бронирования
	ErrAlreadyCancelled = errors.New("confirm_reservation: reservation already cancelled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_reservation: internal error")
)
