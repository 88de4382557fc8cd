package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type fakeValidateTokenUC struct {
	validation *domain.TokenValidation
	err        error
}

func (f *fakeValidateTokenUC) Execute(_ context.Context, _, _ uuid.UUID) (*domain.TokenValidation, error) {
	return f.validation, f.err
}

type fakeSubmitUC struct {
	confirmation *domain.ScheduledConfirmation
	err          error

	gotAction domain.ConfirmationAction
}

func (f *fakeSubmitUC) Execute(_ context.Context, _, _ uuid.UUID, action domain.ConfirmationAction, _ *float64) (*domain.ScheduledConfirmation, error) {
	f.gotAction = action
	return f.confirmation, f.err
}

func publicRouter(validateUC *fakeValidateTokenUC, submitUC *fakeSubmitUC) *chi.Mux {
	handlers := NewPublicHandlers(validateUC, submitUC)
	r := chi.NewRouter()
	r.Get("/confirmar/{token}", handlers.HandleValidateToken)
	r.Post("/owner-confirmations/{token}/submit", handlers.HandleSubmitConfirmation)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestHandleValidateToken_FlatResponseShape(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()
	expiresAt := time.Now().UTC().Add(24 * time.Hour)
	validateUC := &fakeValidateTokenUC{validation: &domain.TokenValidation{
		Token: &domain.ConfirmationToken{TokenID: uuid.New(), TenantID: tenantID, ExpiresAt: expiresAt},
		Property: domain.PropertySnapshot{
			PropertyID:    propertyID,
			PropertyType:  "apartment",
			Neighborhood:  "Moema",
			City:          "Sao Paulo",
			Reference:     "AP-100",
			CurrentStatus: domain.PropertyAvailable,
			CurrentPrice:  450000,
		},
		Owner: domain.OwnerSnapshot{OwnerID: uuid.New(), Name: "Maria Souza"},
	}}
	router := publicRouter(validateUC, &fakeSubmitUC{})

	req := httptest.NewRequest(http.MethodGet, "/confirmar/"+uuid.New().String()+"?tenant_id="+tenantID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["valid"] != true {
		t.Errorf("valid = %v, want true", body["valid"])
	}
	for field, want := range map[string]interface{}{
		"property_id":    propertyID.String(),
		"property_type":  "apartment",
		"neighborhood":   "Moema",
		"city":           "Sao Paulo",
		"reference":      "AP-100",
		"current_status": "available",
		"current_price":  float64(450000),
	} {
		if body[field] != want {
			t.Errorf("%s = %v, want %v", field, body[field], want)
		}
	}
	if _, ok := body["expires_at"]; !ok {
		t.Error("expires_at missing from response")
	}
	if _, ok := body["property"]; ok {
		t.Error("response carries a nested 'property' object, the page expects flat fields")
	}
}

func TestHandleValidateToken_ErrorEnvelope(t *testing.T) {
	validateUC := &fakeValidateTokenUC{err: domain.ErrTokenExpired}
	router := publicRouter(validateUC, &fakeSubmitUC{})

	req := httptest.NewRequest(http.MethodGet, "/confirmar/"+uuid.New().String()+"?tenant_id="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["valid"] != false {
		t.Errorf("valid = %v, want false", body["valid"])
	}
	if body["error"] != invalidLinkMessage {
		t.Errorf("error = %v, want the generic invalid-link message", body["error"])
	}
}

func TestHandleSubmitConfirmation_SuccessEnvelope(t *testing.T) {
	respondedAt := time.Now().UTC()
	response := domain.ResponseAvailable
	submitUC := &fakeSubmitUC{confirmation: &domain.ScheduledConfirmation{
		ID:          uuid.New(),
		Status:      domain.ConfirmationResponded,
		Response:    &response,
		RespondedAt: &respondedAt,
	}}
	router := publicRouter(&fakeValidateTokenUC{}, submitUC)

	reqBody := strings.NewReader(`{"action":"confirm_available"}`)
	req := httptest.NewRequest(http.MethodPost, "/owner-confirmations/"+uuid.New().String()+"/submit?tenant_id="+uuid.New().String(), reqBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data = %v, want an object", body["data"])
	}
	if data["status"] != "responded" {
		t.Errorf("data.status = %v, want responded", data["status"])
	}
	if submitUC.gotAction != domain.ActionConfirmAvailable {
		t.Errorf("action passed to usecase = %q", submitUC.gotAction)
	}
}

func TestHandleSubmitConfirmation_ErrorEnvelope(t *testing.T) {
	submitUC := &fakeSubmitUC{err: domain.ErrTokenConsumed}
	router := publicRouter(&fakeValidateTokenUC{}, submitUC)

	reqBody := strings.NewReader(`{"action":"confirm_available"}`)
	req := httptest.NewRequest(http.MethodPost, "/owner-confirmations/"+uuid.New().String()+"/submit?tenant_id="+uuid.New().String(), reqBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != invalidLinkMessage {
		t.Errorf("error = %v, want the generic invalid-link message", body["error"])
	}
}

func TestHandleSubmitConfirmation_UnknownAction(t *testing.T) {
	router := publicRouter(&fakeValidateTokenUC{}, &fakeSubmitUC{})

	reqBody := strings.NewReader(`{"action":"delete_property"}`)
	req := httptest.NewRequest(http.MethodPost, "/owner-confirmations/"+uuid.New().String()+"/submit?tenant_id="+uuid.New().String(), reqBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}
