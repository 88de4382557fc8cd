package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConfirmationStatus - перечисление для статусов запроса на подтверждение
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationSent      ConfirmationStatus = "sent"
	ConfirmationResponded ConfirmationStatus = "responded"
	ConfirmationFailed    ConfirmationStatus = "failed"
	ConfirmationCancelled ConfirmationStatus = "cancelled"
)

// IsTerminal - responded/failed/cancelled не покидаются никогда
func (s ConfirmationStatus) IsTerminal() bool {
	return s == ConfirmationResponded || s == ConfirmationFailed || s == ConfirmationCancelled
}

// OwnerResponse - что именно ответил владелец
type OwnerResponse string

const (
	ResponseAvailable    OwnerResponse = "available"
	ResponseUnavailable  OwnerResponse = "unavailable"
	ResponsePriceUpdated OwnerResponse = "price_updated"
)

// ConfirmationAction - действие владельца на публичной странице
type ConfirmationAction string

const (
	ActionConfirmAvailable   ConfirmationAction = "confirm_available"
	ActionConfirmUnavailable ConfirmationAction = "confirm_unavailable"
	ActionConfirmPrice       ConfirmationAction = "confirm_price"
)

// Response отображает действие в записываемый ответ. Неизвестное действие -
// ошибка, а не молчаливый fallback.
func (a ConfirmationAction) Response() (OwnerResponse, error) {
	switch a {
	case ActionConfirmAvailable:
		return ResponseAvailable, nil
	case ActionConfirmUnavailable:
		return ResponseUnavailable, nil
	case ActionConfirmPrice:
		return ResponsePriceUpdated, nil
	default:
		return "", fmt.Errorf("unknown confirmation action: %q", string(a))
	}
}

// DeliveryMethod - канал доставки запроса владельцу
type DeliveryMethod string

const (
	DeliveryWhatsApp DeliveryMethod = "whatsapp"
	DeliveryEmail    DeliveryMethod = "email"
	DeliveryManual   DeliveryMethod = "manual"
)

// ScheduledConfirmation - одна попытка запросить у владельца подтверждение
// доступности/цены. Записи никогда не удаляются - это аудиторский след.
type ScheduledConfirmation struct {
	ID              uuid.UUID          `json:"id"`
	TenantID        uuid.UUID          `json:"tenant_id"`
	PropertyID      uuid.UUID          `json:"property_id"`
	OwnerID         uuid.UUID          `json:"owner_id"`
	BrokerID        *uuid.UUID         `json:"broker_id,omitempty"`
	TokenID         uuid.UUID          `json:"token_id"`
	ConfirmationURL string             `json:"confirmation_url"`
	ScheduledFor    time.Time          `json:"scheduled_for"`
	SentAt          *time.Time         `json:"sent_at"`
	Status          ConfirmationStatus `json:"status"`
	DeliveryMethod  DeliveryMethod     `json:"delivery_method"`
	DeliveryStatus  *string            `json:"delivery_status"`
	RespondedAt     *time.Time         `json:"responded_at"`
	Response        *OwnerResponse     `json:"response"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewScheduledConfirmation - конструктор. Запись всегда рождается в pending.
func NewScheduledConfirmation(token *ConfirmationToken, brokerID *uuid.UUID, confirmationURL string, scheduledFor time.Time, method DeliveryMethod) *ScheduledConfirmation {
	return &ScheduledConfirmation{
		ID:              uuid.New(),
		TenantID:        token.TenantID,
		PropertyID:      token.PropertyID,
		OwnerID:         token.OwnerID,
		BrokerID:        brokerID,
		TokenID:         token.TokenID,
		ConfirmationURL: confirmationURL,
		ScheduledFor:    scheduledFor,
		Status:          ConfirmationPending,
		DeliveryMethod:  method,
		CreatedAt:       time.Now().UTC(),
	}
}

// SchedulingCandidate - все, что планировщику нужно знать об объекте,
// чтобы решить, включать ли его в цикл. Заполняется хранилищем одним запросом.
type SchedulingCandidate struct {
	PropertyID            uuid.UUID
	Reference             string
	Status                PropertyStatus
	OwnerID               *uuid.UUID
	BrokerID              *uuid.UUID
	OwnerPhone            *string
	OwnerEmail            *string
	HasActiveConfirmation bool
}

// EvaluateEligibility - чистая функция отбора. Возвращает канал доставки и
// пустую причину, если объект годен, либо человекочитаемую причину пропуска.
// Никаких побочных эффектов: dry-run и боевой прогон используют ровно её.
func EvaluateEligibility(c SchedulingCandidate) (DeliveryMethod, string) {
	if c.HasActiveConfirmation {
		return "", fmt.Sprintf("property %s: already has an active confirmation for this cycle", c.Reference)
	}
	if c.OwnerID == nil {
		return "", fmt.Sprintf("property %s: no resolvable owner", c.Reference)
	}
	if c.OwnerPhone != nil && *c.OwnerPhone != "" {
		return DeliveryWhatsApp, ""
	}
	if c.OwnerEmail != nil && *c.OwnerEmail != "" {
		return DeliveryEmail, ""
	}
	return "", fmt.Sprintf("property %s: no owner contact", c.Reference)
}

// ScheduleResult - итог одного прогона планировщика.
// Инвариант: ScheduledCount + SkippedCount == TotalProperties.
type ScheduleResult struct {
	TotalProperties     int         `json:"total_properties"`
	ScheduledCount      int         `json:"scheduled_count"`
	SkippedCount        int         `json:"skipped_count"`
	SkippedReasons      []string    `json:"skipped_reasons"`
	ScheduledConfirmIDs []uuid.UUID `json:"scheduled_confirm_ids"`
	DryRun              bool        `json:"dry_run"`
}

// ProcessResult - итог одного прогона batch runner'а
type ProcessResult struct {
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
	Expired    int `json:"expired"`
}

// DueConfirmation - pending-запись, до которой дошла дата отправки,
// вместе с контактами владельца для диспетчеризации.
type DueConfirmation struct {
	Confirmation ScheduledConfirmation
	OwnerPhone   *string
	OwnerEmail   *string
}

// SubmissionCommand - проверенное действие владельца, готовое к атомарному
// применению: потребление токена, переход sent->responded и обновление объекта
// происходят в одной транзакции.
type SubmissionCommand struct {
	TokenID     uuid.UUID
	TenantID    uuid.UUID
	Action      ConfirmationAction
	Response    OwnerResponse
	PriceAmount *float64
	RespondedAt time.Time
}

// DeliveryReceiptEvent - обратная связь от транспортного коллаборатора:
// дошло сообщение до владельца или нет. Success=false переводит запись
// sent -> failed, успешная квитанция только уточняет delivery_status.
type DeliveryReceiptEvent struct {
	ConfirmationID uuid.UUID `json:"confirmation_id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	Success        bool      `json:"success"`
	Detail         string    `json:"detail"`
}

// DeliveryDispatchEvent - событие, которое уходит транспортному коллаборатору
// через брокер. Само содержимое сообщения (шаблон, текст) - забота канала.
type DeliveryDispatchEvent struct {
	ConfirmationID  uuid.UUID      `json:"confirmation_id"`
	TenantID        uuid.UUID      `json:"tenant_id"`
	PropertyID      uuid.UUID      `json:"property_id"`
	OwnerID         uuid.UUID      `json:"owner_id"`
	DeliveryMethod  DeliveryMethod `json:"delivery_method"`
	OwnerPhone      *string        `json:"owner_phone,omitempty"`
	OwnerEmail      *string        `json:"owner_email,omitempty"`
	ConfirmationURL string         `json:"confirmation_url"`
	ScheduledFor    string         `json:"scheduled_for"`
}
