package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type fakeScheduleMonthlyUC struct {
	result *domain.ScheduleResult

	gotTargetDate time.Time
	gotDryRun     bool
}

func (f *fakeScheduleMonthlyUC) Execute(_ context.Context, _ uuid.UUID, targetDate time.Time, dryRun bool) (*domain.ScheduleResult, error) {
	f.gotTargetDate = targetDate
	f.gotDryRun = dryRun
	return f.result, nil
}

func scheduleRouter(scheduleUC *fakeScheduleMonthlyUC) *chi.Mux {
	handlers := NewAdminHandlers(scheduleUC, nil, nil, nil, nil, nil, nil, nil)
	r := chi.NewRouter()
	r.Post("/admin/{tenantID}/scheduled-confirmations/schedule", handlers.HandleScheduleMonthly)
	return r
}

func TestHandleScheduleMonthly_ScheduledForHonored(t *testing.T) {
	scheduleUC := &fakeScheduleMonthlyUC{result: &domain.ScheduleResult{}}
	router := scheduleRouter(scheduleUC)

	reqBody := strings.NewReader(`{"scheduled_for":"2026-09-01","dry_run":true}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/"+uuid.New().String()+"/scheduled-confirmations/schedule", reqBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !scheduleUC.gotTargetDate.Equal(want) {
		t.Errorf("target date = %v, want %v from the request body", scheduleUC.gotTargetDate, want)
	}
	if !scheduleUC.gotDryRun {
		t.Error("dry_run flag was not passed through")
	}
}

func TestHandleScheduleMonthly_EmptyBodyDefaultsToToday(t *testing.T) {
	scheduleUC := &fakeScheduleMonthlyUC{result: &domain.ScheduleResult{}}
	router := scheduleRouter(scheduleUC)

	before := time.Now().UTC()
	req := httptest.NewRequest(http.MethodPost, "/admin/"+uuid.New().String()+"/scheduled-confirmations/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if scheduleUC.gotTargetDate.Before(before) {
		t.Errorf("target date = %v, want now or later", scheduleUC.gotTargetDate)
	}
}

func TestHandleScheduleMonthly_BadDateRejected(t *testing.T) {
	scheduleUC := &fakeScheduleMonthlyUC{result: &domain.ScheduleResult{}}
	router := scheduleRouter(scheduleUC)

	reqBody := strings.NewReader(`{"scheduled_for":"01/09/2026"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/"+uuid.New().String()+"/scheduled-confirmations/schedule", reqBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
