package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

const uniqueViolationCode = "23505"

const confirmationColumns = `
	id, tenant_id, property_id, owner_id, broker_id, token_id,
	confirmation_url, scheduled_for, sent_at, status, delivery_method,
	delivery_status, responded_at, response, created_at
`

// PostgresConfirmationStorage - реализация ConfirmationStoragePort для
// PostgreSQL. Здесь живут обе критические секции: атомарное создание
// токен+запись и транзакция применения ответа владельца.
type PostgresConfirmationStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresConfirmationStorage - конструктор.
func NewPostgresConfirmationStorage(pool *pgxpool.Pool) (*PostgresConfirmationStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresConfirmationStorage{pool: pool}, nil
}

func scanConfirmation(row pgx.Row) (*domain.ScheduledConfirmation, error) {
	var c domain.ScheduledConfirmation
	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.PropertyID,
		&c.OwnerID,
		&c.BrokerID,
		&c.TokenID,
		&c.ConfirmationURL,
		&c.ScheduledFor,
		&c.SentAt,
		&c.Status,
		&c.DeliveryMethod,
		&c.DeliveryStatus,
		&c.RespondedAt,
		&c.Response,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create атомарно сохраняет токен и pending-запись в одной транзакции.
// Частичный уникальный индекс на (property_id, месяц scheduled_for) для
// активных статусов превращает гонку двух планировщиков в ErrDuplicateSchedule.
// Ожидаемое определение индекса (схемой владеет внешняя подсистема каталога):
//
//	CREATE UNIQUE INDEX uniq_active_confirmation_per_cycle
//	    ON scheduled_confirmations (property_id, date_trunc('month', scheduled_for))
//	    WHERE status IN ('pending', 'sent');
func (r *PostgresConfirmationStorage) Create(ctx context.Context, confirmation *domain.ScheduledConfirmation, token *domain.ConfirmationToken) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresConfirmationStorage",
		"method":          "Create",
		"confirmation_id": confirmation.ID.String(),
		"property_id":     confirmation.PropertyID.String(),
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertToken := `
		INSERT INTO confirmation_tokens (token_id, tenant_id, property_id, owner_id, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, insertToken,
		token.TokenID,
		token.TenantID,
		token.PropertyID,
		token.OwnerID,
		token.ExpiresAt,
		token.Consumed,
		token.CreatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to insert confirmation token", err, nil)
		return fmt.Errorf("failed to insert confirmation token: %w", err)
	}

	insertConfirmation := `
		INSERT INTO scheduled_confirmations (
			id, tenant_id, property_id, owner_id, broker_id, token_id,
			confirmation_url, scheduled_for, status, delivery_method, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, insertConfirmation,
		confirmation.ID,
		confirmation.TenantID,
		confirmation.PropertyID,
		confirmation.OwnerID,
		confirmation.BrokerID,
		confirmation.TokenID,
		confirmation.ConfirmationURL,
		confirmation.ScheduledFor,
		confirmation.Status,
		confirmation.DeliveryMethod,
		confirmation.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			repoLogger.Warn("Active confirmation already exists for this cycle", nil)
			return domain.ErrDuplicateSchedule
		}
		repoLogger.Error("Failed to insert scheduled confirmation", err, nil)
		return fmt.Errorf("failed to insert scheduled confirmation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Scheduled confirmation created", nil)
	return nil
}

// GetByID находит запись тенанта по ID.
func (r *PostgresConfirmationStorage) GetByID(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error) {
	query := `SELECT ` + confirmationColumns + ` FROM scheduled_confirmations WHERE tenant_id = $1 AND id = $2`

	confirmation, err := scanConfirmation(r.pool.QueryRow(ctx, query, tenantID, confirmationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("failed to find confirmation by id: %w", err)
	}
	return confirmation, nil
}

// List возвращает страницу записей тенанта и общее количество.
func (r *PostgresConfirmationStorage) List(ctx context.Context, tenantID uuid.UUID, status *domain.ConfirmationStatus, limit, offset int) ([]domain.ScheduledConfirmation, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresConfirmationStorage",
		"method":    "List",
		"tenant_id": tenantID.String(),
	})

	countQuery := `SELECT COUNT(*) FROM scheduled_confirmations WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, tenantID, status).Scan(&total); err != nil {
		repoLogger.Error("Failed to count confirmations", err, nil)
		return nil, 0, fmt.Errorf("failed to count confirmations: %w", err)
	}

	query := `
		SELECT ` + confirmationColumns + `
		FROM scheduled_confirmations
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY scheduled_for DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query confirmations", err, nil)
		return nil, 0, fmt.Errorf("failed to query confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []domain.ScheduledConfirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			repoLogger.Error("Failed to scan confirmation", err, nil)
			return nil, 0, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, *c)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error iterating confirmations", err, nil)
		return nil, 0, fmt.Errorf("error iterating confirmations: %w", err)
	}

	return confirmations, total, nil
}

// ListDue возвращает pending-записи, до которых дошла дата отправки,
// с контактами владельца. tenantID == nil - прогон по всем тенантам.
func (r *PostgresConfirmationStorage) ListDue(ctx context.Context, tenantID *uuid.UUID, today time.Time) ([]domain.DueConfirmation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresConfirmationStorage",
		"method":    "ListDue",
	})

	query := `
		SELECT sc.id, sc.tenant_id, sc.property_id, sc.owner_id, sc.broker_id, sc.token_id,
		       sc.confirmation_url, sc.scheduled_for, sc.sent_at, sc.status, sc.delivery_method,
		       sc.delivery_status, sc.responded_at, sc.response, sc.created_at,
		       o.phone, o.email
		FROM scheduled_confirmations sc
		JOIN owners o ON o.id = sc.owner_id AND o.tenant_id = sc.tenant_id
		WHERE sc.status = 'pending'
		  AND sc.scheduled_for <= $1
		  AND ($2::uuid IS NULL OR sc.tenant_id = $2)
		ORDER BY sc.scheduled_for
	`
	rows, err := r.pool.Query(ctx, query, today, tenantID)
	if err != nil {
		repoLogger.Error("Failed to query due confirmations", err, nil)
		return nil, fmt.Errorf("failed to query due confirmations: %w", err)
	}
	defer rows.Close()

	var due []domain.DueConfirmation
	for rows.Next() {
		var d domain.DueConfirmation
		err := rows.Scan(
			&d.Confirmation.ID,
			&d.Confirmation.TenantID,
			&d.Confirmation.PropertyID,
			&d.Confirmation.OwnerID,
			&d.Confirmation.BrokerID,
			&d.Confirmation.TokenID,
			&d.Confirmation.ConfirmationURL,
			&d.Confirmation.ScheduledFor,
			&d.Confirmation.SentAt,
			&d.Confirmation.Status,
			&d.Confirmation.DeliveryMethod,
			&d.Confirmation.DeliveryStatus,
			&d.Confirmation.RespondedAt,
			&d.Confirmation.Response,
			&d.Confirmation.CreatedAt,
			&d.OwnerPhone,
			&d.OwnerEmail,
		)
		if err != nil {
			repoLogger.Error("Failed to scan due confirmation", err, nil)
			return nil, fmt.Errorf("failed to scan due confirmation: %w", err)
		}
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error iterating due confirmations", err, nil)
		return nil, fmt.Errorf("error iterating due confirmations: %w", err)
	}

	repoLogger.Debug("Due confirmations loaded", port.Fields{"count": len(due)})
	return due, nil
}

// MarkSent переводит запись pending -> sent. CAS по статусу: если запись уже
// не pending, ноль затронутых строк и явная ошибка.
func (r *PostgresConfirmationStorage) MarkSent(ctx context.Context, confirmationID uuid.UUID, sentAt time.Time, deliveryStatus string) error {
	query := `
		UPDATE scheduled_confirmations
		SET status = 'sent', sent_at = $2, delivery_status = $3
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.pool.Exec(ctx, query, confirmationID, sentAt, deliveryStatus)
	if err != nil {
		return fmt.Errorf("failed to mark confirmation as sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirmation %s is not in pending state", confirmationID)
	}
	return nil
}

// MarkFailed переводит запись pending -> failed (CAS по статусу).
func (r *PostgresConfirmationStorage) MarkFailed(ctx context.Context, confirmationID uuid.UUID, deliveryStatus string) error {
	query := `
		UPDATE scheduled_confirmations
		SET status = 'failed', delivery_status = $2
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.pool.Exec(ctx, query, confirmationID, deliveryStatus)
	if err != nil {
		return fmt.Errorf("failed to mark confirmation as failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirmation %s is not in pending state", confirmationID)
	}
	return nil
}

// Cancel переводит pending/sent -> cancelled. Терминальную запись трогать
// нельзя: конкурентный ответ владельца выигрывает, оператор получает конфликт.
func (r *PostgresConfirmationStorage) Cancel(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresConfirmationStorage",
		"method":          "Cancel",
		"confirmation_id": confirmationID.String(),
	})

	query := `
		UPDATE scheduled_confirmations
		SET status = 'cancelled'
		WHERE tenant_id = $1 AND id = $2 AND status IN ('pending', 'sent')
		RETURNING ` + confirmationColumns

	confirmation, err := scanConfirmation(r.pool.QueryRow(ctx, query, tenantID, confirmationID))
	if err == nil {
		return confirmation, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		repoLogger.Error("Failed to cancel confirmation", err, nil)
		return nil, fmt.Errorf("failed to cancel confirmation: %w", err)
	}

	// Ноль строк: либо записи нет, либо она уже терминальна.
	var status domain.ConfirmationStatus
	err = r.pool.QueryRow(ctx,
		`SELECT status FROM scheduled_confirmations WHERE tenant_id = $1 AND id = $2`,
		tenantID, confirmationID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Confirmation not found", nil)
			return nil, domain.ErrConfirmationNotFound
		}
		repoLogger.Error("Failed to check confirmation status", err, nil)
		return nil, fmt.Errorf("failed to check confirmation status: %w", err)
	}

	repoLogger.Warn("Cancel conflicts with terminal state", port.Fields{"status": string(status)})
	return nil, domain.ErrCancelConflict
}

// ExpireOverduePending закрывает pending-записи, чья дата отправки прошла
// раньше olderThan. Политика sweep на случай долгого простоя диспетчера.
func (r *PostgresConfirmationStorage) ExpireOverduePending(ctx context.Context, tenantID *uuid.UUID, olderThan time.Time) (int64, error) {
	query := `
		UPDATE scheduled_confirmations
		SET status = 'failed', delivery_status = 'expired: dispatch window passed'
		WHERE status = 'pending'
		  AND scheduled_for < $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`
	tag, err := r.pool.Exec(ctx, query, olderThan, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue confirmations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ApplyDeliveryReceipt записывает квитанцию канала доставки. Оба запроса -
// CAS по статусу sent: квитанция по закрытой записи не трогает ничего.
func (r *PostgresConfirmationStorage) ApplyDeliveryReceipt(ctx context.Context, receipt domain.DeliveryReceiptEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":       "PostgresConfirmationStorage",
		"method":          "ApplyDeliveryReceipt",
		"confirmation_id": receipt.ConfirmationID.String(),
	})

	var query string
	if receipt.Success {
		query = `
			UPDATE scheduled_confirmations
			SET delivery_status = $3
			WHERE tenant_id = $1 AND id = $2 AND status = 'sent'
		`
	} else {
		query = `
			UPDATE scheduled_confirmations
			SET status = 'failed', delivery_status = $3
			WHERE tenant_id = $1 AND id = $2 AND status = 'sent'
		`
	}

	tag, err := r.pool.Exec(ctx, query, receipt.TenantID, receipt.ConfirmationID, receipt.Detail)
	if err != nil {
		repoLogger.Error("Failed to apply delivery receipt", err, nil)
		return fmt.Errorf("failed to apply delivery receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		repoLogger.Debug("Receipt ignored, confirmation is not in sent state", nil)
	}
	return nil
}

// ApplySubmission применяет ответ владельца в одной транзакции:
//  1. потребить токен (CAS по consumed),
//  2. перевести запись sent -> responded (CAS по статусу),
//  3. обновить объект согласно действию.
//
// Любая из проверок падает - откат всей транзакции, повторный сабмит по тому
// же токену всегда упирается в шаг 1.
func (r *PostgresConfirmationStorage) ApplySubmission(ctx context.Context, cmd domain.SubmissionCommand) (*domain.ScheduledConfirmation, *domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresConfirmationStorage",
		"method":    "ApplySubmission",
		"token_id":  cmd.TokenID.String(),
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Шаг 1: потребление токена.
	tag, err := tx.Exec(ctx,
		`UPDATE confirmation_tokens SET consumed = TRUE WHERE token_id = $1 AND tenant_id = $2 AND consumed = FALSE`,
		cmd.TokenID, cmd.TenantID,
	)
	if err != nil {
		repoLogger.Error("Failed to consume token", err, nil)
		return nil, nil, fmt.Errorf("failed to consume token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var consumed bool
		err := tx.QueryRow(ctx,
			`SELECT consumed FROM confirmation_tokens WHERE token_id = $1 AND tenant_id = $2`,
			cmd.TokenID, cmd.TenantID,
		).Scan(&consumed)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				repoLogger.Warn("Token not found", nil)
				return nil, nil, domain.ErrTokenNotFound
			}
			repoLogger.Error("Failed to check token state", err, nil)
			return nil, nil, fmt.Errorf("failed to check token state: %w", err)
		}
		repoLogger.Warn("Token already consumed", nil)
		return nil, nil, domain.ErrTokenConsumed
	}

	// Шаг 2: переход sent -> responded.
	updateConfirmation := `
		UPDATE scheduled_confirmations
		SET status = 'responded', responded_at = $2, response = $3
		WHERE token_id = $1 AND status = 'sent'
		RETURNING ` + confirmationColumns

	confirmation, err := scanConfirmation(tx.QueryRow(ctx, updateConfirmation, cmd.TokenID, cmd.RespondedAt, cmd.Response))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			checkErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM scheduled_confirmations WHERE token_id = $1)`,
				cmd.TokenID,
			).Scan(&exists)
			if checkErr != nil {
				repoLogger.Error("Failed to check confirmation existence", checkErr, nil)
				return nil, nil, fmt.Errorf("failed to check confirmation existence: %w", checkErr)
			}
			if !exists {
				repoLogger.Warn("No confirmation record for token", nil)
				return nil, nil, domain.ErrConfirmationNotFound
			}
			repoLogger.Warn("Confirmation is not in sent state", nil)
			return nil, nil, domain.ErrRecordNotInSentState
		}
		repoLogger.Error("Failed to transition confirmation", err, nil)
		return nil, nil, fmt.Errorf("failed to transition confirmation: %w", err)
	}

	// Шаг 3: обновление объекта согласно действию владельца.
	var updateProperty string
	args := []any{confirmation.TenantID, confirmation.PropertyID, cmd.RespondedAt}
	switch cmd.Action {
	case domain.ActionConfirmAvailable:
		updateProperty = `
			UPDATE properties
			SET status = 'available', status_confirmed_at = $3
			WHERE tenant_id = $1 AND id = $2
		`
	case domain.ActionConfirmUnavailable:
		updateProperty = `
			UPDATE properties
			SET status = 'unavailable', status_confirmed_at = $3
			WHERE tenant_id = $1 AND id = $2
		`
	case domain.ActionConfirmPrice:
		updateProperty = `
			UPDATE properties
			SET price_amount = $4, price_confirmed_at = $3
			WHERE tenant_id = $1 AND id = $2
		`
		args = append(args, cmd.PriceAmount)
	default:
		return nil, nil, fmt.Errorf("unknown confirmation action: %q", string(cmd.Action))
	}

	updateProperty += `
		RETURNING id, tenant_id, reference, property_type, neighborhood, city,
		          status, price_amount, status_confirmed_at, price_confirmed_at,
		          owner_id, broker_id
	`
	var property domain.Property
	err = tx.QueryRow(ctx, updateProperty, args...).Scan(
		&property.ID,
		&property.TenantID,
		&property.Reference,
		&property.PropertyType,
		&property.Neighborhood,
		&property.City,
		&property.Status,
		&property.PriceAmount,
		&property.StatusConfirmedAt,
		&property.PriceConfirmedAt,
		&property.OwnerID,
		&property.BrokerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Property not found", nil)
			return nil, nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to update property", err, nil)
		return nil, nil, fmt.Errorf("failed to update property: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Submission applied", port.Fields{
		"confirmation_id": confirmation.ID.String(),
		"response":        string(cmd.Response),
	})
	return confirmation, &property, nil
}

// GetMetrics собирает операционную сводку: счетчики по статусам записей и
// корзины свежести подтверждений по объектам тенанта.
func (r *PostgresConfirmationStorage) GetMetrics(ctx context.Context, tenantID uuid.UUID, stalenessThreshold time.Duration) (*domain.ConfirmationMetrics, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresConfirmationStorage",
		"method":    "GetMetrics",
		"tenant_id": tenantID.String(),
	})

	metrics := &domain.ConfirmationMetrics{
		StatusCounts: make(map[domain.ConfirmationStatus]int64),
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM scheduled_confirmations
		WHERE tenant_id = $1
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, statusQuery, tenantID)
	if err != nil {
		repoLogger.Error("Failed to query status counts", err, nil)
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.ConfirmationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			repoLogger.Error("Failed to scan status count", err, nil)
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		metrics.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error iterating status counts", err, nil)
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	cutoff := time.Now().UTC().Add(-stalenessThreshold)
	stalenessQuery := `
		SELECT
			COUNT(*) FILTER (WHERE status_confirmed_at IS NOT NULL AND status_confirmed_at >= $2),
			COUNT(*) FILTER (WHERE status_confirmed_at IS NOT NULL AND status_confirmed_at < $2),
			COUNT(*) FILTER (WHERE price_confirmed_at IS NOT NULL AND price_confirmed_at >= $2),
			COUNT(*) FILTER (WHERE price_confirmed_at IS NOT NULL AND price_confirmed_at < $2),
			COUNT(*) FILTER (WHERE status_confirmed_at IS NULL AND price_confirmed_at IS NULL)
		FROM properties
		WHERE tenant_id = $1
	`
	err = r.pool.QueryRow(ctx, stalenessQuery, tenantID, cutoff).Scan(
		&metrics.Staleness.FreshStatus,
		&metrics.Staleness.StaleStatus,
		&metrics.Staleness.FreshPrice,
		&metrics.Staleness.StalePrice,
		&metrics.Staleness.NeverConfirmed,
	)
	if err != nil {
		repoLogger.Error("Failed to query staleness buckets", err, nil)
		return nil, fmt.Errorf("failed to query staleness buckets: %w", err)
	}

	return metrics, nil
}
