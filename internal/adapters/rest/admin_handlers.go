package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port/usecases_port"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// AdminHandlers - обработчики административного API. Все маршруты идут через
// AuthMiddleware, tenant_id берется из пути.
type AdminHandlers struct {
	scheduleUC    usecases_port.ScheduleMonthlyUseCase
	processUC     usecases_port.ProcessPendingUseCase
	issueLinkUC   usecases_port.IssueConfirmationLinkUseCase
	operatorUC    usecases_port.OperatorConfirmUseCase
	listUC        usecases_port.ListConfirmationsUseCase
	cancelUC      usecases_port.CancelConfirmationUseCase
	metricsUC     usecases_port.GetConfirmationMetricsUseCase
	importBatchUC usecases_port.GetImportBatchUseCase
}

// NewAdminHandlers - конструктор для административных обработчиков.
func NewAdminHandlers(
	scheduleUC usecases_port.ScheduleMonthlyUseCase,
	processUC usecases_port.ProcessPendingUseCase,
	issueLinkUC usecases_port.IssueConfirmationLinkUseCase,
	operatorUC usecases_port.OperatorConfirmUseCase,
	listUC usecases_port.ListConfirmationsUseCase,
	cancelUC usecases_port.CancelConfirmationUseCase,
	metricsUC usecases_port.GetConfirmationMetricsUseCase,
	importBatchUC usecases_port.GetImportBatchUseCase,
) *AdminHandlers {
	return &AdminHandlers{
		scheduleUC:    scheduleUC,
		processUC:     processUC,
		issueLinkUC:   issueLinkUC,
		operatorUC:    operatorUC,
		listUC:        listUC,
		cancelUC:      cancelUC,
		metricsUC:     metricsUC,
		importBatchUC: importBatchUC,
	}
}

func tenantIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "tenantID"))
}

// HandleScheduleMonthly - обработчик для POST /scheduled-confirmations/schedule.
// С dry_run=true только считает, ничего не создавая.
func (h *AdminHandlers) HandleScheduleMonthly(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleScheduleMonthly"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}

	var reqDTO ScheduleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil && err != io.EOF {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	targetDate := time.Now().UTC()
	if reqDTO.ScheduledFor != "" {
		targetDate, err = time.Parse("2006-01-02", reqDTO.ScheduledFor)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Field 'scheduled_for' must be in YYYY-MM-DD format")
			return
		}
	}

	logger.Info("Received request to schedule monthly confirmations", port.Fields{
		"tenant_id": tenantID.String(),
		"dry_run":   reqDTO.DryRun,
	})

	result, err := h.scheduleUC.Execute(r.Context(), tenantID, targetDate, reqDTO.DryRun)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to schedule confirmations")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// HandleProcessPending - обработчик для POST /scheduled-confirmations/process.
// Ручной запуск batch runner'а для одного тенанта.
func (h *AdminHandlers) HandleProcessPending(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleProcessPending"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}

	logger.Info("Received request to process pending confirmations", port.Fields{"tenant_id": tenantID.String()})

	result, err := h.processUC.Execute(r.Context(), &tenantID, time.Now().UTC())
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to process pending confirmations")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// HandleIssueConfirmationLink - обработчик для
// POST /properties/{propertyID}/owner-confirmation-link.
func (h *AdminHandlers) HandleIssueConfirmationLink(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleIssueConfirmationLink"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}
	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	var reqDTO IssueLinkRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil && err != io.EOF {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	ownerID := uuid.Nil
	if reqDTO.OwnerID != "" {
		ownerID, err = uuid.Parse(reqDTO.OwnerID)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid owner ID format")
			return
		}
	}

	url, err := h.issueLinkUC.Execute(r.Context(), tenantID, propertyID, ownerID, reqDTO.DeliveryHint)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound), errors.Is(err, domain.ErrOwnerNotFound):
			WriteJSONError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrDuplicateSchedule):
			WriteJSONError(w, http.StatusConflict, err.Error())
		default:
			logger.Error("Use case execution failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to issue confirmation link")
		}
		return
	}

	logger.Info("Confirmation link issued", port.Fields{"property_id": propertyID.String()})
	RespondWithJSON(w, http.StatusCreated, map[string]string{"confirmation_url": url})
}

// HandleOperatorConfirm - обработчик для PATCH /properties/{propertyID}/confirmations.
// Прямое подтверждение сотрудником, минуя токен владельца.
func (h *AdminHandlers) HandleOperatorConfirm(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleOperatorConfirm"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}
	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	var reqDTO OperatorConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		if err == io.EOF {
			WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var confirmStatus *domain.PropertyStatus
	if reqDTO.ConfirmStatus != nil {
		status := domain.PropertyStatus(*reqDTO.ConfirmStatus)
		confirmStatus = &status
	}

	property, err := h.operatorUC.Execute(r.Context(), tenantID, propertyID, confirmStatus, reqDTO.ConfirmPrice, reqDTO.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound):
			WriteJSONError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrInvalidPrice):
			WriteJSONError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Warn("Operator confirmation rejected", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, property)
}

// HandleListConfirmations - обработчик для GET /scheduled-confirmations.
// Поддерживает фильтр по статусу и limit/offset пагинацию.
func (h *AdminHandlers) HandleListConfirmations(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleListConfirmations"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}

	var status *domain.ConfirmationStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ConfirmationStatus(s)
		switch st {
		case domain.ConfirmationPending, domain.ConfirmationSent, domain.ConfirmationResponded,
			domain.ConfirmationFailed, domain.ConfirmationCancelled:
			status = &st
		default:
			WriteJSONError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
	}

	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit <= 0 || limit > maxListLimit {
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Field 'limit' must be between 1 and %d", maxListLimit))
			return
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		offset, err = strconv.Atoi(o)
		if err != nil || offset < 0 {
			WriteJSONError(w, http.StatusBadRequest, "Field 'offset' must be a non-negative number")
			return
		}
	}

	items, total, err := h.listUC.Execute(r.Context(), tenantID, status, limit, offset)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to list confirmations")
		return
	}

	RespondWithJSON(w, http.StatusOK, ConfirmationListResponseDTO{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleCancelConfirmation - обработчик для
// POST /scheduled-confirmations/{confirmationID}/cancel.
func (h *AdminHandlers) HandleCancelConfirmation(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleCancelConfirmation"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}
	confirmationID, err := uuid.Parse(chi.URLParam(r, "confirmationID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid confirmation ID format")
		return
	}

	confirmation, err := h.cancelUC.Execute(r.Context(), tenantID, confirmationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfirmationNotFound):
			WriteJSONError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrCancelConflict):
			WriteJSONError(w, http.StatusConflict, err.Error())
		default:
			logger.Error("Use case execution failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to cancel confirmation")
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, confirmation)
}

// HandleGetMetrics - обработчик для GET /scheduled-confirmations/metrics.
func (h *AdminHandlers) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetMetrics"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}

	metrics, err := h.metricsUC.Execute(r.Context(), tenantID)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to collect metrics")
		return
	}

	RespondWithJSON(w, http.StatusOK, metrics)
}

// HandleGetImportBatch - обработчик для GET /import/batches/{batchID}.
// Дашборд поллит этот эндпоинт, пока статус пакета не станет терминальным.
func (h *AdminHandlers) HandleGetImportBatch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetImportBatch"})

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid tenant ID format")
		return
	}
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	batch, err := h.importBatchUC.Execute(r.Context(), tenantID, batchID)
	if err != nil {
		if errors.Is(err, domain.ErrImportBatchNotFound) {
			WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get import batch")
		return
	}

	RespondWithJSON(w, http.StatusOK, batch)
}
