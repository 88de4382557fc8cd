package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// OperatorConfirmation - команда прямого подтверждения сотрудником,
// минуя токен владельца.
type OperatorConfirmation struct {
	TenantID      uuid.UUID
	PropertyID    uuid.UUID
	ConfirmStatus *domain.PropertyStatus
	ConfirmPrice  *float64
	ConfirmedAt   time.Time
}

// PropertyStoragePort - доступ к каталогу объектов. Каталогом владеет
// внешняя подсистема, ядро подтверждений обновляет только поля
// status/price и отметки *_confirmed_at.
type PropertyStoragePort interface {
	// GetByID возвращает объект тенанта или domain.ErrPropertyNotFound
	GetByID(ctx context.Context, tenantID, propertyID uuid.UUID) (*domain.Property, error)

	// GetOwner возвращает владельца или domain.ErrOwnerNotFound
	GetOwner(ctx context.Context, tenantID, ownerID uuid.UUID) (*domain.Owner, error)

	// ListSchedulingCandidates возвращает по одному кандидату на каждый
	// подтверждаемый объект тенанта, с контактами владельца и флагом
	// активного подтверждения в цикле месяца cycleMonth.
	ListSchedulingCandidates(ctx context.Context, tenantID uuid.UUID, cycleMonth time.Time) ([]domain.SchedulingCandidate, error)

	// ApplyOperatorConfirmation атомарно применяет прямое подтверждение
	// сотрудника и возвращает обновленный объект.
	ApplyOperatorConfirmation(ctx context.Context, cmd OperatorConfirmation) (*domain.Property, error)

	// ListTenantIDs возвращает всех тенантов, у которых есть объекты.
	// Нужен cron-прогонам, которые идут по всем тенантам.
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
