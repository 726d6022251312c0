package notifyqueue

import "errors"

var (
	// ErrPublishFailed возвращается при любой ошибке публикации события
	// Вызывающие логируют её и продолжают работу: уведомления не критичны
	// для корректности бронирования
	ErrPublishFailed = errors.New("notifyqueue: failed to publish event")
)
