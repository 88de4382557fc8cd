package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// ScheduleRequestDTO - тело POST-запроса на запуск месячного цикла.
type ScheduleRequestDTO struct {
	ScheduledFor string `json:"scheduled_for"` // YYYY-MM-DD, по умолчанию - сегодня
	DryRun       bool   `json:"dry_run"`
}

// SubmitRequestDTO - тело публичного POST-запроса с ответом владельца.
type SubmitRequestDTO struct {
	Action      string   `json:"action"`       // confirm_available | confirm_unavailable | confirm_price
	PriceAmount *float64 `json:"price_amount"` // обязателен только для confirm_price
}

// OperatorConfirmRequestDTO - тело PATCH-запроса прямого подтверждения
// сотрудником. Хотя бы одно из полей confirm_status/confirm_price обязательно.
type OperatorConfirmRequestDTO struct {
	ConfirmStatus *string  `json:"confirm_status"`
	ConfirmPrice  *float64 `json:"confirm_price"`
	Reason        string   `json:"reason"`
}

// IssueLinkRequestDTO - тело запроса на выдачу ad hoc ссылки подтверждения.
type IssueLinkRequestDTO struct {
	OwnerID      string `json:"owner_id"`      // пусто - берем владельца объекта
	DeliveryHint string `json:"delivery_hint"` // whatsapp | email | manual
}

// TokenValidationResponseDTO - плоский ответ публичной страницы подтверждения.
// При любой ошибке токена наружу уходит {valid:false, error} без этих полей.
type TokenValidationResponseDTO struct {
	Valid         bool                  `json:"valid"`
	PropertyID    uuid.UUID             `json:"property_id"`
	PropertyType  string                `json:"property_type"`
	Neighborhood  string                `json:"neighborhood"`
	City          string                `json:"city"`
	Reference     string                `json:"reference"`
	CurrentStatus domain.PropertyStatus `json:"current_status"`
	CurrentPrice  float64               `json:"current_price"`
	ExpiresAt     time.Time             `json:"expires_at"`
}

// ConfirmationListResponseDTO - страница записей с общим количеством.
type ConfirmationListResponseDTO struct {
	Items  []domain.ScheduledConfirmation `json:"items"`
	Total  int64                          `json:"total"`
	Limit  int                            `json:"limit"`
	Offset int                            `json:"offset"`
}

// SubmitResultDTO - данные закрытой записи внутри конверта сабмита.
type SubmitResultDTO struct {
	ConfirmationID string                    `json:"confirmation_id"`
	Status         domain.ConfirmationStatus `json:"status"`
	Response       *domain.OwnerResponse     `json:"response"`
	RespondedAt    *time.Time                `json:"responded_at"`
}

// SubmitResponseDTO - конверт {success, data} публичного сабмита.
// При ошибке наружу уходит {success:false, error}.
type SubmitResponseDTO struct {
	Success bool            `json:"success"`
	Data    SubmitResultDTO `json:"data"`
}

func toTokenValidationResponse(v *domain.TokenValidation) TokenValidationResponseDTO {
	return TokenValidationResponseDTO{
		Valid:         true,
		PropertyID:    v.Property.PropertyID,
		PropertyType:  v.Property.PropertyType,
		Neighborhood:  v.Property.Neighborhood,
		City:          v.Property.City,
		Reference:     v.Property.Reference,
		CurrentStatus: v.Property.CurrentStatus,
		CurrentPrice:  v.Property.CurrentPrice,
		ExpiresAt:     v.Token.ExpiresAt,
	}
}

func toSubmitResponse(c *domain.ScheduledConfirmation) SubmitResponseDTO {
	return SubmitResponseDTO{
		Success: true,
		Data: SubmitResultDTO{
			ConfirmationID: c.ID.String(),
			Status:         c.Status,
			Response:       c.Response,
			RespondedAt:    c.RespondedAt,
		},
	}
}
