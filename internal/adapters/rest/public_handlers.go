package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port/usecases_port"
)

// invalidLinkMessage - единый текст для всех ошибок токена на публичной
// странице. Владельцу не сообщаем, чем именно плоха ссылка.
const invalidLinkMessage = "This confirmation link is invalid or has expired"

// PublicHandlers - обработчики публичной стороны: страница /confirmar/{token}
// и сабмит ответа владельца. Аутентификация - только сам токен.
type PublicHandlers struct {
	validateTokenUC usecases_port.ValidateTokenUseCase
	submitUC        usecases_port.SubmitConfirmationUseCase
}

// NewPublicHandlers - конструктор для публичных обработчиков.
func NewPublicHandlers(validateTokenUC usecases_port.ValidateTokenUseCase,
	submitUC usecases_port.SubmitConfirmationUseCase) *PublicHandlers {
	return &PublicHandlers{
		validateTokenUC: validateTokenUC,
		submitUC:        submitUC,
	}
}

// parsePublicIdentifiers достает токен из пути и tenant_id из query.
// Обе ошибки схлопываются в общий invalidLinkMessage.
func parsePublicIdentifiers(r *http.Request) (tokenID, tenantID uuid.UUID, err error) {
	tokenID, err = uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid token format: %w", err)
	}
	tenantID, err = uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid tenant_id format: %w", err)
	}
	return tokenID, tenantID, nil
}

// writeValidateError - ответ валидации при ошибке: {valid:false, error}.
func writeValidateError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]interface{}{
		"valid": false,
		"error": message,
	})
}

// writeSubmitError - ответ сабмита при ошибке: {success:false, error}.
func writeSubmitError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeTokenError отображает ошибки токена в публичный ответ через конверт
// соответствующего эндпоинта. Детали остаются в логах, наружу - общий текст.
func writeTokenError(w http.ResponseWriter, err error, respond func(http.ResponseWriter, int, string)) {
	switch {
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenConsumed):
		respond(w, http.StatusGone, invalidLinkMessage)
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrTenantMismatch),
		errors.Is(err, domain.ErrPropertyNotFound), errors.Is(err, domain.ErrOwnerNotFound),
		errors.Is(err, domain.ErrConfirmationNotFound), errors.Is(err, domain.ErrRecordNotInSentState):
		respond(w, http.StatusNotFound, invalidLinkMessage)
	default:
		respond(w, http.StatusInternalServerError, "Something went wrong, please try again later")
	}
}

// HandleValidateToken - обработчик для GET /confirmar/{token}.
// Токен НЕ потребляется: владелец может открывать страницу сколько угодно раз.
func (h *PublicHandlers) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleValidateToken"})

	tokenID, tenantID, err := parsePublicIdentifiers(r)
	if err != nil {
		logger.Warn("Malformed public identifiers", port.Fields{"error": err.Error()})
		writeValidateError(w, http.StatusNotFound, invalidLinkMessage)
		return
	}

	validation, err := h.validateTokenUC.Execute(r.Context(), tokenID, tenantID)
	if err != nil {
		logger.Warn("Token validation failed", port.Fields{"error": err.Error()})
		writeTokenError(w, err, writeValidateError)
		return
	}

	RespondWithJSON(w, http.StatusOK, toTokenValidationResponse(validation))
}

// HandleSubmitConfirmation - обработчик для POST /owner-confirmations/{token}/submit.
// Единственная публичная запись: потребляет токен и закрывает запись.
func (h *PublicHandlers) HandleSubmitConfirmation(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSubmitConfirmation"})

	tokenID, tenantID, err := parsePublicIdentifiers(r)
	if err != nil {
		logger.Warn("Malformed public identifiers", port.Fields{"error": err.Error()})
		writeSubmitError(w, http.StatusNotFound, invalidLinkMessage)
		return
	}

	var reqDTO SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		if err == io.EOF {
			writeSubmitError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		writeSubmitError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	action := domain.ConfirmationAction(reqDTO.Action)
	if _, err := action.Response(); err != nil {
		writeSubmitError(w, http.StatusBadRequest, "Field 'action' must be one of: confirm_available, confirm_unavailable, confirm_price")
		return
	}

	confirmation, err := h.submitUC.Execute(r.Context(), tokenID, tenantID, action, reqDTO.PriceAmount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPrice) {
			writeSubmitError(w, http.StatusBadRequest, "Field 'price_amount' must be a positive number")
			return
		}
		logger.Warn("Submission rejected", port.Fields{"error": err.Error()})
		writeTokenError(w, err, writeSubmitError)
		return
	}

	logger.Info("Owner submission applied", port.Fields{"confirmation_id": confirmation.ID.String()})
	RespondWithJSON(w, http.StatusOK, toSubmitResponse(confirmation))
}
