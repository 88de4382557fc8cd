package domain

import "errors"

// Сентинельные ошибки ядра. Адаптеры и хендлеры сравнивают их через errors.Is
// и сами решают, какой HTTP-статус вернуть.
var (
	ErrTokenNotFound  = errors.New("confirmation token not found")
	ErrTokenExpired   = errors.New("confirmation token expired")
	ErrTokenConsumed  = errors.New("confirmation token already consumed")
	ErrTenantMismatch = errors.New("token does not belong to this tenant")

	ErrInvalidPrice         = errors.New("price amount must be greater than zero")
	ErrRecordNotInSentState = errors.New("scheduled confirmation is not in 'sent' state")
	ErrDuplicateSchedule    = errors.New("property already has an active confirmation for this cycle")
	ErrCancelConflict       = errors.New("confirmation already reached a terminal state")

	ErrConfirmationNotFound = errors.New("scheduled confirmation not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrImportBatchNotFound  = errors.New("import batch not found")
)
