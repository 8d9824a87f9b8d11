package notifier

import "errors"

var (
	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации сообщения
	ErrPublish = errors.New("notifier: failed to publish message")

	// ErrUnknownKind возвращается для неизвестного типа уведомления
	ErrUnknownKind = errors.New("notifier: unknown notification kind")

	// ErrInvalidPayload возвращается, если тело сообщения не разбирается
	ErrInvalidPayload = errors.New("notifier: invalid payload")
)
