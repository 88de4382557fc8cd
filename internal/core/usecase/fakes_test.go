package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

// In-memory фейки портов хранилищ. Ведут себя как настоящие адаптеры
// (включая CAS-семантику), но живут в памяти одного теста.

type fakeTokenStorage struct {
	tokens map[uuid.UUID]*domain.ConfirmationToken
}

func newFakeTokenStorage() *fakeTokenStorage {
	return &fakeTokenStorage{tokens: make(map[uuid.UUID]*domain.ConfirmationToken)}
}

func (f *fakeTokenStorage) Create(_ context.Context, token *domain.ConfirmationToken) error {
	f.tokens[token.TokenID] = token
	return nil
}

func (f *fakeTokenStorage) GetByID(_ context.Context, tokenID uuid.UUID) (*domain.ConfirmationToken, error) {
	token, ok := f.tokens[tokenID]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}

type fakePropertyStorage struct {
	properties map[uuid.UUID]*domain.Property
	owners     map[uuid.UUID]*domain.Owner
	candidates []domain.SchedulingCandidate

	listCandidatesErr error
}

func newFakePropertyStorage() *fakePropertyStorage {
	return &fakePropertyStorage{
		properties: make(map[uuid.UUID]*domain.Property),
		owners:     make(map[uuid.UUID]*domain.Owner),
	}
}

func (f *fakePropertyStorage) GetByID(_ context.Context, tenantID, propertyID uuid.UUID) (*domain.Property, error) {
	property, ok := f.properties[propertyID]
	if !ok || property.TenantID != tenantID {
		return nil, domain.ErrPropertyNotFound
	}
	copied := *property
	return &copied, nil
}

func (f *fakePropertyStorage) GetOwner(_ context.Context, tenantID, ownerID uuid.UUID) (*domain.Owner, error) {
	owner, ok := f.owners[ownerID]
	if !ok || owner.TenantID != tenantID {
		return nil, domain.ErrOwnerNotFound
	}
	copied := *owner
	return &copied, nil
}

func (f *fakePropertyStorage) ListSchedulingCandidates(_ context.Context, _ uuid.UUID, _ time.Time) ([]domain.SchedulingCandidate, error) {
	if f.listCandidatesErr != nil {
		return nil, f.listCandidatesErr
	}
	return f.candidates, nil
}

func (f *fakePropertyStorage) ApplyOperatorConfirmation(_ context.Context, cmd port.OperatorConfirmation) (*domain.Property, error) {
	property, ok := f.properties[cmd.PropertyID]
	if !ok || property.TenantID != cmd.TenantID {
		return nil, domain.ErrPropertyNotFound
	}
	if cmd.ConfirmStatus != nil {
		property.Status = *cmd.ConfirmStatus
		confirmedAt := cmd.ConfirmedAt
		property.StatusConfirmedAt = &confirmedAt
	}
	if cmd.ConfirmPrice != nil {
		property.PriceAmount = *cmd.ConfirmPrice
		confirmedAt := cmd.ConfirmedAt
		property.PriceConfirmedAt = &confirmedAt
	}
	copied := *property
	return &copied, nil
}

func (f *fakePropertyStorage) ListTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, p := range f.properties {
		if !seen[p.TenantID] {
			seen[p.TenantID] = true
			ids = append(ids, p.TenantID)
		}
	}
	return ids, nil
}

type fakeConfirmationStorage struct {
	confirmations map[uuid.UUID]*domain.ScheduledConfirmation
	byToken       map[uuid.UUID]uuid.UUID
	tokens        *fakeTokenStorage
	properties    *fakePropertyStorage

	due []domain.DueConfirmation

	createErrByProperty map[uuid.UUID]error
	metrics             *domain.ConfirmationMetrics
}

func newFakeConfirmationStorage(tokens *fakeTokenStorage, properties *fakePropertyStorage) *fakeConfirmationStorage {
	return &fakeConfirmationStorage{
		confirmations:       make(map[uuid.UUID]*domain.ScheduledConfirmation),
		byToken:             make(map[uuid.UUID]uuid.UUID),
		tokens:              tokens,
		properties:          properties,
		createErrByProperty: make(map[uuid.UUID]error),
	}
}

func (f *fakeConfirmationStorage) Create(_ context.Context, confirmation *domain.ScheduledConfirmation, token *domain.ConfirmationToken) error {
	if err, ok := f.createErrByProperty[confirmation.PropertyID]; ok {
		return err
	}
	for _, existing := range f.confirmations {
		if existing.PropertyID == confirmation.PropertyID && !existing.Status.IsTerminal() {
			return domain.ErrDuplicateSchedule
		}
	}
	f.tokens.tokens[token.TokenID] = token
	copied := *confirmation
	f.confirmations[confirmation.ID] = &copied
	f.byToken[token.TokenID] = confirmation.ID
	return nil
}

func (f *fakeConfirmationStorage) GetByID(_ context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error) {
	c, ok := f.confirmations[confirmationID]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrConfirmationNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeConfirmationStorage) List(_ context.Context, tenantID uuid.UUID, status *domain.ConfirmationStatus, limit, offset int) ([]domain.ScheduledConfirmation, int64, error) {
	var items []domain.ScheduledConfirmation
	for _, c := range f.confirmations {
		if c.TenantID != tenantID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		items = append(items, *c)
	}
	total := int64(len(items))
	if offset >= len(items) {
		return nil, total, nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, total, nil
}

func (f *fakeConfirmationStorage) ListDue(_ context.Context, _ *uuid.UUID, _ time.Time) ([]domain.DueConfirmation, error) {
	return f.due, nil
}

func (f *fakeConfirmationStorage) MarkSent(_ context.Context, confirmationID uuid.UUID, sentAt time.Time, deliveryStatus string) error {
	c, ok := f.confirmations[confirmationID]
	if !ok {
		return domain.ErrConfirmationNotFound
	}
	if c.Status != domain.ConfirmationPending {
		return fmt.Errorf("confirmation %s is not in pending state", confirmationID)
	}
	c.Status = domain.ConfirmationSent
	c.SentAt = &sentAt
	c.DeliveryStatus = &deliveryStatus
	return nil
}

func (f *fakeConfirmationStorage) MarkFailed(_ context.Context, confirmationID uuid.UUID, deliveryStatus string) error {
	c, ok := f.confirmations[confirmationID]
	if !ok {
		return domain.ErrConfirmationNotFound
	}
	if c.Status != domain.ConfirmationPending {
		return fmt.Errorf("confirmation %s is not in pending state", confirmationID)
	}
	c.Status = domain.ConfirmationFailed
	c.DeliveryStatus = &deliveryStatus
	return nil
}

func (f *fakeConfirmationStorage) Cancel(_ context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error) {
	c, ok := f.confirmations[confirmationID]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrConfirmationNotFound
	}
	if c.Status.IsTerminal() {
		return nil, domain.ErrCancelConflict
	}
	c.Status = domain.ConfirmationCancelled
	copied := *c
	return &copied, nil
}

func (f *fakeConfirmationStorage) ExpireOverduePending(_ context.Context, _ *uuid.UUID, olderThan time.Time) (int64, error) {
	var expired int64
	for _, c := range f.confirmations {
		if c.Status == domain.ConfirmationPending && c.ScheduledFor.Before(olderThan) {
			c.Status = domain.ConfirmationFailed
			expired++
		}
	}
	return expired, nil
}

func (f *fakeConfirmationStorage) ApplyDeliveryReceipt(_ context.Context, receipt domain.DeliveryReceiptEvent) error {
	c, ok := f.confirmations[receipt.ConfirmationID]
	if !ok || c.TenantID != receipt.TenantID || c.Status != domain.ConfirmationSent {
		return nil
	}
	c.DeliveryStatus = &receipt.Detail
	if !receipt.Success {
		c.Status = domain.ConfirmationFailed
	}
	return nil
}

func (f *fakeConfirmationStorage) ApplySubmission(_ context.Context, cmd domain.SubmissionCommand) (*domain.ScheduledConfirmation, *domain.Property, error) {
	token, ok := f.tokens.tokens[cmd.TokenID]
	if !ok {
		return nil, nil, domain.ErrTokenNotFound
	}
	if token.Consumed {
		return nil, nil, domain.ErrTokenConsumed
	}

	confirmationID, ok := f.byToken[cmd.TokenID]
	if !ok {
		return nil, nil, domain.ErrConfirmationNotFound
	}
	c := f.confirmations[confirmationID]
	if c.Status != domain.ConfirmationSent {
		return nil, nil, domain.ErrRecordNotInSentState
	}

	property, ok := f.properties.properties[c.PropertyID]
	if !ok {
		return nil, nil, domain.ErrPropertyNotFound
	}

	token.Consumed = true
	c.Status = domain.ConfirmationResponded
	respondedAt := cmd.RespondedAt
	c.RespondedAt = &respondedAt
	response := cmd.Response
	c.Response = &response

	switch cmd.Action {
	case domain.ActionConfirmAvailable:
		property.Status = domain.PropertyAvailable
		property.StatusConfirmedAt = &respondedAt
	case domain.ActionConfirmUnavailable:
		property.Status = domain.PropertyUnavailable
		property.StatusConfirmedAt = &respondedAt
	case domain.ActionConfirmPrice:
		property.PriceAmount = *cmd.PriceAmount
		property.PriceConfirmedAt = &respondedAt
	}

	confirmationCopy := *c
	propertyCopy := *property
	return &confirmationCopy, &propertyCopy, nil
}

func (f *fakeConfirmationStorage) GetMetrics(_ context.Context, _ uuid.UUID, _ time.Duration) (*domain.ConfirmationMetrics, error) {
	if f.metrics != nil {
		return f.metrics, nil
	}
	return &domain.ConfirmationMetrics{StatusCounts: map[domain.ConfirmationStatus]int64{}}, nil
}

type fakeDeliveryQueue struct {
	published []domain.DeliveryDispatchEvent
	failFor   map[uuid.UUID]error // по confirmation_id
}

func newFakeDeliveryQueue() *fakeDeliveryQueue {
	return &fakeDeliveryQueue{failFor: make(map[uuid.UUID]error)}
}

func (f *fakeDeliveryQueue) PublishDispatch(_ context.Context, event domain.DeliveryDispatchEvent) error {
	if err, ok := f.failFor[event.ConfirmationID]; ok {
		return err
	}
	f.published = append(f.published, event)
	return nil
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }
