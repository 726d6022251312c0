package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CreateTableRequest запрос на создание стола
type CreateTableRequest struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	IsActive *bool  `json:"isActive,omitempty"` // По умолчанию true
}

// UpdateTableRequest запрос на обновление стола
// Частичное обновление: nil-поля не меняются
type UpdateTableRequest struct {
	Number   *int    `json:"number,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Location *string `json:"location,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Response модели

// TableResponse ответ с данными стола
type TableResponse struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	IsActive bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableListResponse ответ со списком столов
type TableListResponse struct {
	Tables []TableResponse `json:"tables"`
}

// ScheduleSlot занятое окно в расписании стола
type ScheduleSlot struct {
	ReservationID   string `json:"reservationId"`
	StartTime       string `json:"startTime"` // "18:00"
	DurationMinutes int    `json:"durationMinutes"`
	EndTime         string `json:"endTime"` // "20:00"
	Status          string `json:"status"`
	Guests          int    `json:"guests"`
}

// TableScheduleResponse расписание стола на дату
// Содержит только блокирующие бронирования (locked с живым TTL и confirmed)
type TableScheduleResponse struct {
	TableID int64          `json:"tableId"`
	Number  int            `json:"number"`
	Date    string         `json:"date"` // "2026-08-23"
	Slots   []ScheduleSlot `json:"slots"`
}

// Методы конвертации

// FromDomainTable конвертирует domain модель в DTO
func FromDomainTable(t *domain.Table) *TableResponse {
	if t == nil {
		return nil
	}
	return &TableResponse{
		ID:        t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Location:  t.Location,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromDomainTableList конвертирует список domain моделей в DTO
func FromDomainTableList(tables []*domain.Table) *TableListResponse {
	result := &TableListResponse{
		Tables: make([]TableResponse, 0, len(tables)),
	}
	for _, t := range tables {
		result.Tables = append(result.Tables, *FromDomainTable(t))
	}
	return result
}
