package cronjobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port/usecases_port"
)

// Scheduler - cron-прогоны жизненного цикла подтверждений: месячное
// планирование по всем тенантам и ежедневная диспетчеризация pending-записей.
type Scheduler struct {
	cron       *cron.Cron
	scheduleUC usecases_port.ScheduleMonthlyUseCase
	processUC  usecases_port.ProcessPendingUseCase
	properties port.PropertyStoragePort
	logger     port.LoggerPort

	monthlySpec string
	dailySpec   string
	isRunning   bool
}

// NewScheduler - конструктор. Спеки передаются в стандартном cron-формате.
func NewScheduler(
	scheduleUC usecases_port.ScheduleMonthlyUseCase,
	processUC usecases_port.ProcessPendingUseCase,
	properties port.PropertyStoragePort,
	logger port.LoggerPort,
	monthlySpec, dailySpec string,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		scheduleUC:  scheduleUC,
		processUC:   processUC,
		properties:  properties,
		logger:      logger,
		monthlySpec: monthlySpec,
		dailySpec:   dailySpec,
	}
}

// Start регистрирует джобы и запускает cron.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.monthlySpec, func() {
		if err := s.RunMonthlyScheduling(); err != nil {
			s.logger.Error("Monthly scheduling job failed", err, nil)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid monthly cron spec %q: %w", s.monthlySpec, err)
	}

	_, err = s.cron.AddFunc(s.dailySpec, func() {
		if err := s.RunPendingDispatch(); err != nil {
			s.logger.Error("Pending dispatch job failed", err, nil)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid daily cron spec %q: %w", s.dailySpec, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Cron scheduler started", port.Fields{
		"monthly_spec": s.monthlySpec,
		"daily_spec":   s.dailySpec,
	})
	return nil
}

// Stop останавливает cron и дожидается завершения запущенных джобов.
func (s *Scheduler) Stop() {
	if s.isRunning {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.isRunning = false
		s.logger.Info("Cron scheduler stopped", nil)
	}
}

// jobContext - фоновый контекст с логгером и trace id для одного прогона.
func (s *Scheduler) jobContext(jobName string) (context.Context, port.LoggerPort) {
	traceID := uuid.New().String()
	jobLogger := s.logger.WithFields(port.Fields{
		"cron_job": jobName,
		"trace_id": traceID,
	})
	ctx := contextkeys.ContextWithLogger(context.Background(), jobLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)
	return ctx, jobLogger
}

// RunMonthlyScheduling прогоняет месячное планирование по всем тенантам.
// Ошибка одного тенанта не останавливает остальных.
func (s *Scheduler) RunMonthlyScheduling() error {
	ctx, jobLogger := s.jobContext("monthly_scheduling")
	jobLogger.Info("Starting monthly scheduling run", nil)

	tenantIDs, err := s.properties.ListTenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: failed to list tenants: %w", err)
	}

	now := time.Now().UTC()
	var failed int
	for _, tenantID := range tenantIDs {
		result, err := s.scheduleUC.Execute(ctx, tenantID, now, false)
		if err != nil {
			jobLogger.Error("Scheduling failed for tenant", err, port.Fields{"tenant_id": tenantID.String()})
			failed++
			continue
		}
		jobLogger.Info("Tenant scheduled", port.Fields{
			"tenant_id":        tenantID.String(),
			"total_properties": result.TotalProperties,
			"scheduled_count":  result.ScheduledCount,
			"skipped_count":    result.SkippedCount,
		})
	}

	jobLogger.Info("Monthly scheduling run finished", port.Fields{
		"tenants_total":  len(tenantIDs),
		"tenants_failed": failed,
	})
	if failed > 0 {
		return fmt.Errorf("scheduler: monthly scheduling failed for %d of %d tenants", failed, len(tenantIDs))
	}
	return nil
}

// RunPendingDispatch диспетчеризует созревшие pending-записи всех тенантов.
func (s *Scheduler) RunPendingDispatch() error {
	ctx, jobLogger := s.jobContext("pending_dispatch")
	jobLogger.Info("Starting pending dispatch run", nil)

	result, err := s.processUC.Execute(ctx, nil, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("scheduler: pending dispatch failed: %w", err)
	}

	jobLogger.Info("Pending dispatch run finished", port.Fields{
		"dispatched": result.Dispatched,
		"failed":     result.Failed,
		"expired":    result.Expired,
	})
	return nil
}
