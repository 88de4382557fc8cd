package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

func newScheduleFixture() (*ScheduleMonthlyUseCase, *fakePropertyStorage, *fakeConfirmationStorage) {
	tokens := newFakeTokenStorage()
	properties := newFakePropertyStorage()
	confirmations := newFakeConfirmationStorage(tokens, properties)
	uc := NewScheduleMonthlyUseCase(properties, confirmations, "https://confirm.example.com", 30*24*time.Hour)
	return uc, properties, confirmations
}

func eligibleCandidate(reference string) domain.SchedulingCandidate {
	ownerID := uuid.New()
	return domain.SchedulingCandidate{
		PropertyID: uuid.New(),
		Reference:  reference,
		Status:     domain.PropertyAvailable,
		OwnerID:    &ownerID,
		OwnerPhone: strPtr("+5511999990000"),
	}
}

func TestScheduleMonthly_SchedulesEligibleProperties(t *testing.T) {
	uc, properties, confirmations := newScheduleFixture()
	tenantID := uuid.New()
	targetDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	properties.candidates = []domain.SchedulingCandidate{
		eligibleCandidate("AP-100"),
		eligibleCandidate("AP-101"),
	}

	result, err := uc.Execute(context.Background(), tenantID, targetDate, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ScheduledCount != 2 {
		t.Fatalf("scheduled count = %d, want 2", result.ScheduledCount)
	}
	if result.SkippedCount != 0 {
		t.Fatalf("skipped count = %d, want 0", result.SkippedCount)
	}
	if len(confirmations.confirmations) != 2 {
		t.Fatalf("stored confirmations = %d, want 2", len(confirmations.confirmations))
	}
	for _, c := range confirmations.confirmations {
		if c.Status != domain.ConfirmationPending {
			t.Errorf("new confirmation status = %q, want pending", c.Status)
		}
		if c.DeliveryMethod != domain.DeliveryWhatsApp {
			t.Errorf("delivery method = %q, want whatsapp", c.DeliveryMethod)
		}
		if !strings.Contains(c.ConfirmationURL, "/confirmar/"+c.TokenID.String()) {
			t.Errorf("confirmation URL %q does not embed the token", c.ConfirmationURL)
		}
		if !strings.Contains(c.ConfirmationURL, "tenant_id="+tenantID.String()) {
			t.Errorf("confirmation URL %q does not carry the tenant", c.ConfirmationURL)
		}
	}
}

func TestScheduleMonthly_SkipReasons(t *testing.T) {
	uc, properties, _ := newScheduleFixture()
	tenantID := uuid.New()
	targetDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	noOwner := domain.SchedulingCandidate{
		PropertyID: uuid.New(),
		Reference:  "AP-200",
		Status:     domain.PropertyAvailable,
	}
	ownerID := uuid.New()
	noContact := domain.SchedulingCandidate{
		PropertyID: uuid.New(),
		Reference:  "AP-201",
		Status:     domain.PropertyAvailable,
		OwnerID:    &ownerID,
	}
	active := eligibleCandidate("AP-202")
	active.HasActiveConfirmation = true

	properties.candidates = []domain.SchedulingCandidate{noOwner, noContact, active}

	result, err := uc.Execute(context.Background(), tenantID, targetDate, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ScheduledCount != 0 || result.SkippedCount != 3 {
		t.Fatalf("scheduled/skipped = %d/%d, want 0/3", result.ScheduledCount, result.SkippedCount)
	}
	if got, want := result.ScheduledCount+result.SkippedCount, result.TotalProperties; got != want {
		t.Fatalf("scheduled+skipped = %d, want total %d", got, want)
	}

	joined := strings.Join(result.SkippedReasons, "\n")
	for _, want := range []string{
		"AP-200: no resolvable owner",
		"AP-201: no owner contact",
		"AP-202: already has an active confirmation",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("skip reasons missing %q:\n%s", want, joined)
		}
	}
}

func TestScheduleMonthly_DryRunCreatesNothing(t *testing.T) {
	uc, properties, confirmations := newScheduleFixture()
	tenantID := uuid.New()
	targetDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	properties.candidates = []domain.SchedulingCandidate{
		eligibleCandidate("AP-300"),
		{PropertyID: uuid.New(), Reference: "AP-301", Status: domain.PropertyAvailable},
	}

	result, err := uc.Execute(context.Background(), tenantID, targetDate, true)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ScheduledCount != 0 {
		t.Fatalf("dry run scheduled %d confirmations", result.ScheduledCount)
	}
	if result.SkippedCount != 2 {
		t.Fatalf("skipped count = %d, want 2", result.SkippedCount)
	}
	if len(confirmations.confirmations) != 0 {
		t.Fatalf("dry run persisted %d confirmations", len(confirmations.confirmations))
	}

	joined := strings.Join(result.SkippedReasons, "\n")
	if !strings.Contains(joined, "AP-300: eligible, skipped (dry run)") {
		t.Errorf("eligible property not reported as dry-run skip:\n%s", joined)
	}
}

func TestScheduleMonthly_CreateErrorSkipsProperty(t *testing.T) {
	uc, properties, confirmations := newScheduleFixture()
	tenantID := uuid.New()
	targetDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	broken := eligibleCandidate("AP-400")
	healthy := eligibleCandidate("AP-401")
	properties.candidates = []domain.SchedulingCandidate{broken, healthy}
	confirmations.createErrByProperty[broken.PropertyID] = domain.ErrDuplicateSchedule

	result, err := uc.Execute(context.Background(), tenantID, targetDate, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ScheduledCount != 1 {
		t.Fatalf("scheduled count = %d, want 1", result.ScheduledCount)
	}
	if result.SkippedCount != 1 {
		t.Fatalf("skipped count = %d, want 1", result.SkippedCount)
	}
	if !strings.Contains(strings.Join(result.SkippedReasons, "\n"), "AP-400") {
		t.Errorf("failed property not present in skip reasons: %v", result.SkippedReasons)
	}
}

func TestScheduleMonthly_ListFailureAborts(t *testing.T) {
	uc, properties, _ := newScheduleFixture()
	properties.listCandidatesErr = errors.New("connection reset")

	_, err := uc.Execute(context.Background(), uuid.New(), time.Now().UTC(), false)
	if err == nil {
		t.Fatal("expected error when candidate listing fails")
	}
}
