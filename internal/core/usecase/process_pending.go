package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type ProcessPendingUseCase struct {
	confirmations port.ConfirmationStoragePort
	delivery      port.DeliveryQueuePort
	pendingGrace  time.Duration
}

func NewProcessPendingUseCase(confirmations port.ConfirmationStoragePort,
	delivery port.DeliveryQueuePort,
	pendingGrace time.Duration) *ProcessPendingUseCase {
	return &ProcessPendingUseCase{
		confirmations: confirmations,
		delivery:      delivery,
		pendingGrace:  pendingGrace,
	}
}

// Execute - один прогон batch runner'а: диспетчеризует все pending-записи
// со scheduled_for <= today. Каждая запись обрабатывается независимо, ошибка
// доставки одной не прерывает прогон (continue-on-error). Ретраев нет:
// failed-запись подберет следующий цикл планировщика.
// В конце прогона pending-записи, пережившие грейс-период без отправки,
// переводятся в failed (sweep-политика на случай простоя джоба).
func (uc *ProcessPendingUseCase) Execute(ctx context.Context, tenantID *uuid.UUID, today time.Time) (*domain.ProcessResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ProcessPending",
		"today":    today.Format("2006-01-02"),
	})
	if tenantID != nil {
		ucLogger = ucLogger.WithFields(port.Fields{"tenant_id": tenantID.String()})
	}

	ucLogger.Info("Starting dispatch pass over due confirmations", nil)

	due, err := uc.confirmations.ListDue(ctx, tenantID, today)
	if err != nil {
		ucLogger.Error("Failed to list due confirmations", err, nil)
		return nil, fmt.Errorf("could not list due confirmations: %w", err)
	}

	result := &domain.ProcessResult{}

	for _, item := range due {
		confirmation := item.Confirmation
		itemLogger := ucLogger.WithFields(port.Fields{
			"confirmation_id": confirmation.ID.String(),
			"property_id":     confirmation.PropertyID.String(),
			"delivery_method": string(confirmation.DeliveryMethod),
		})

		// manual-записи не уходят в брокер: ссылку передает сотрудник
		if confirmation.DeliveryMethod == domain.DeliveryManual {
			if err := uc.confirmations.MarkSent(ctx, confirmation.ID, time.Now().UTC(), "manual hand-off"); err != nil {
				itemLogger.Error("Failed to mark manual confirmation as sent", err, nil)
				result.Failed++
				continue
			}
			result.Dispatched++
			continue
		}

		event := domain.DeliveryDispatchEvent{
			ConfirmationID:  confirmation.ID,
			TenantID:        confirmation.TenantID,
			PropertyID:      confirmation.PropertyID,
			OwnerID:         confirmation.OwnerID,
			DeliveryMethod:  confirmation.DeliveryMethod,
			OwnerPhone:      item.OwnerPhone,
			OwnerEmail:      item.OwnerEmail,
			ConfirmationURL: confirmation.ConfirmationURL,
			ScheduledFor:    confirmation.ScheduledFor.Format("2006-01-02"),
		}

		if err := uc.delivery.PublishDispatch(ctx, event); err != nil {
			// DeliveryFailed не поднимается наверх - фиксируется на записи
			itemLogger.Error("Delivery dispatch failed", err, nil)
			if markErr := uc.confirmations.MarkFailed(ctx, confirmation.ID, fmt.Sprintf("dispatch failed: %v", err)); markErr != nil {
				itemLogger.Error("Failed to mark confirmation as failed", markErr, nil)
			}
			result.Failed++
			continue
		}

		if err := uc.confirmations.MarkSent(ctx, confirmation.ID, time.Now().UTC(), "dispatched"); err != nil {
			// CAS не прошел: запись успели отменить конкурентно
			itemLogger.Warn("Could not mark confirmation as sent after dispatch", port.Fields{"error": err.Error()})
			result.Failed++
			continue
		}
		result.Dispatched++
	}

	expired, err := uc.confirmations.ExpireOverduePending(ctx, tenantID, today.Add(-uc.pendingGrace))
	if err != nil {
		ucLogger.Error("Overdue sweep failed", err, nil)
	} else {
		result.Expired = int(expired)
	}

	ucLogger.Info("Dispatch pass finished", port.Fields{
		"dispatched": result.Dispatched,
		"failed":     result.Failed,
		"expired":    result.Expired,
	})

	return result, nil
}
