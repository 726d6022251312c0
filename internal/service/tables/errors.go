package tables

import "errors"

var (
	// ErrTableNotFound возвращается, когда стол не найден
	ErrTableNotFound = errors.New("table not found")

	// ErrDuplicateNumber возвращается при попытке создать стол с занятым номером
	ErrDuplicateNumber = errors.New("table number already exists")

	// ErrTableHasActiveReservations возвращается при удалении стола с активными бронированиями
	ErrTableHasActiveReservations = errors.New("table has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
