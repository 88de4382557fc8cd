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

type ScheduleMonthlyUseCase struct {
	properties    port.PropertyStoragePort
	confirmations port.ConfirmationStoragePort
	publicBaseURL string
	tokenTTL      time.Duration
}

func NewScheduleMonthlyUseCase(properties port.PropertyStoragePort,
	confirmations port.ConfirmationStoragePort,
	publicBaseURL string,
	tokenTTL time.Duration) *ScheduleMonthlyUseCase {
	return &ScheduleMonthlyUseCase{
		properties:    properties,
		confirmations: confirmations,
		publicBaseURL: publicBaseURL,
		tokenTTL:      tokenTTL,
	}
}

// Execute - один прогон планировщика за цикл (месяц targetDate).
// Ошибки по отдельным объектам фиксируются как причины пропуска и никогда
// не прерывают прогон целиком. Всегда выполняется:
// ScheduledCount + SkippedCount == TotalProperties.
func (uc *ScheduleMonthlyUseCase) Execute(ctx context.Context, tenantID uuid.UUID, targetDate time.Time, dryRun bool) (*domain.ScheduleResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "ScheduleMonthly",
		"tenant_id":   tenantID.String(),
		"target_date": targetDate.Format("2006-01-02"),
		"dry_run":     dryRun,
	})

	ucLogger.Info("Starting monthly scheduling pass", nil)

	candidates, err := uc.properties.ListSchedulingCandidates(ctx, tenantID, targetDate)
	if err != nil {
		ucLogger.Error("Failed to list scheduling candidates", err, nil)
		return nil, fmt.Errorf("could not list scheduling candidates: %w", err)
	}

	result := &domain.ScheduleResult{
		TotalProperties:     len(candidates),
		SkippedReasons:      []string{},
		ScheduledConfirmIDs: []uuid.UUID{},
		DryRun:              dryRun,
	}

	for _, candidate := range candidates {
		method, skipReason := domain.EvaluateEligibility(candidate)
		if skipReason != "" {
			result.SkippedCount++
			result.SkippedReasons = append(result.SkippedReasons, skipReason)
			continue
		}

		// dry-run выполняет полный проход отбора, но ничего не создает:
		// годные объекты учитываются как пропущенные, scheduled_count == 0.
		if dryRun {
			result.SkippedCount++
			result.SkippedReasons = append(result.SkippedReasons,
				fmt.Sprintf("property %s: eligible, skipped (dry run)", candidate.Reference))
			continue
		}

		token := domain.NewConfirmationToken(tenantID, candidate.PropertyID, *candidate.OwnerID, uc.tokenTTL)
		confirmation := domain.NewScheduledConfirmation(
			token,
			candidate.BrokerID,
			uc.buildConfirmationURL(token),
			targetDate,
			method,
		)

		if err := uc.confirmations.Create(ctx, confirmation, token); err != nil {
			// Конкурентный прогон планировщика мог успеть первым - частичный
			// уникальный индекс это отловит, объект просто пропускается.
			result.SkippedCount++
			result.SkippedReasons = append(result.SkippedReasons,
				fmt.Sprintf("property %s: %v", candidate.Reference, err))
			ucLogger.Warn("Skipping property: could not create confirmation", port.Fields{
				"property_id": candidate.PropertyID.String(),
				"reason":      err.Error(),
			})
			continue
		}

		result.ScheduledCount++
		result.ScheduledConfirmIDs = append(result.ScheduledConfirmIDs, confirmation.ID)
	}

	ucLogger.Info("Monthly scheduling pass finished", port.Fields{
		"total":     result.TotalProperties,
		"scheduled": result.ScheduledCount,
		"skipped":   result.SkippedCount,
	})

	return result, nil
}

// buildConfirmationURL собирает публичную ссылку вида
// {base}/confirmar/{token_id}?tenant_id={tenant}
func (uc *ScheduleMonthlyUseCase) buildConfirmationURL(token *domain.ConfirmationToken) string {
	return fmt.Sprintf("%s/confirmar/%s?tenant_id=%s", uc.publicBaseURL, token.TokenID.String(), token.TenantID.String())
}
