package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// ConfirmationStoragePort - хранилище запросов на подтверждение.
// Записи не удаляются никогда: закрытые остаются как аудиторский след.
type ConfirmationStoragePort interface {
	// Create атомарно сохраняет токен и pending-запись. Если у объекта уже
	// есть активная запись в этом цикле (частичный уникальный индекс),
	// возвращает domain.ErrDuplicateSchedule.
	Create(ctx context.Context, confirmation *domain.ScheduledConfirmation, token *domain.ConfirmationToken) error

	// GetByID возвращает запись тенанта или domain.ErrConfirmationNotFound
	GetByID(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error)

	// List возвращает записи тенанта, опционально отфильтрованные по статусу,
	// вместе с общим количеством для пагинации.
	List(ctx context.Context, tenantID uuid.UUID, status *domain.ConfirmationStatus, limit, offset int) ([]domain.ScheduledConfirmation, int64, error)

	// ListDue возвращает pending-записи со scheduled_for <= today.
	// tenantID == nil означает все тенанты (cron-прогон).
	ListDue(ctx context.Context, tenantID *uuid.UUID, today time.Time) ([]domain.DueConfirmation, error)

	// MarkSent переводит pending -> sent (CAS по статусу)
	MarkSent(ctx context.Context, confirmationID uuid.UUID, sentAt time.Time, deliveryStatus string) error

	// MarkFailed переводит pending -> failed (CAS по статусу)
	MarkFailed(ctx context.Context, confirmationID uuid.UUID, deliveryStatus string) error

	// Cancel переводит pending/sent -> cancelled. Если конкурентный сабмит уже
	// довел запись до терминального состояния - domain.ErrCancelConflict,
	// last-writer-wins здесь недопустим.
	Cancel(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error)

	// ExpireOverduePending переводит в failed все pending-записи, чья дата
	// отправки прошла раньше olderThan (политика sweep для простоя джоба).
	ExpireOverduePending(ctx context.Context, tenantID *uuid.UUID, olderThan time.Time) (int64, error)

	// ApplyDeliveryReceipt записывает квитанцию канала доставки: успешная
	// уточняет delivery_status sent-записи, неуспешная переводит sent -> failed.
	// Квитанция по записи в другом состоянии молча игнорируется (дубликаты
	// и гонки с ответом владельца).
	ApplyDeliveryReceipt(ctx context.Context, receipt domain.DeliveryReceiptEvent) error

	// ApplySubmission - единственная операция, требующая строгого взаимного
	// исключения: потребить токен (CAS по consumed), перевести запись
	// sent -> responded (CAS по статусу) и обновить объект - все в одной
	// транзакции. Возвращает закрытую запись и обновленный объект.
	ApplySubmission(ctx context.Context, cmd domain.SubmissionCommand) (*domain.ScheduledConfirmation, *domain.Property, error)

	// GetMetrics - агрегаты по статусам и корзины свежести. Только чтение.
	GetMetrics(ctx context.Context, tenantID uuid.UUID, stalenessThreshold time.Duration) (*domain.ConfirmationMetrics, error)
}
