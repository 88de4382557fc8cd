package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

// PostgresPropertyStorage - реализация PropertyStoragePort для PostgreSQL.
// Каталог объектов читается почти всегда, пишутся только поля подтверждения.
type PostgresPropertyStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresPropertyStorage - конструктор.
func NewPostgresPropertyStorage(pool *pgxpool.Pool) (*PostgresPropertyStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPropertyStorage{pool: pool}, nil
}

// GetByID находит объект тенанта по ID.
func (r *PostgresPropertyStorage) GetByID(ctx context.Context, tenantID, propertyID uuid.UUID) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresPropertyStorage",
		"method":      "GetByID",
		"property_id": propertyID.String(),
	})

	query := `
		SELECT id, tenant_id, reference, property_type, neighborhood, city,
		       status, price_amount, status_confirmed_at, price_confirmed_at,
		       owner_id, broker_id
		FROM properties
		WHERE tenant_id = $1 AND id = $2
	`
	var property domain.Property
	err := r.pool.QueryRow(ctx, query, tenantID, propertyID).Scan(
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
			return nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to find property by ID", err, nil)
		return nil, fmt.Errorf("failed to find property by id: %w", err)
	}

	return &property, nil
}

// GetOwner находит владельца тенанта по ID.
func (r *PostgresPropertyStorage) GetOwner(ctx context.Context, tenantID, ownerID uuid.UUID) (*domain.Owner, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresPropertyStorage",
		"method":    "GetOwner",
		"owner_id":  ownerID.String(),
	})

	query := `
		SELECT id, tenant_id, name, phone, email
		FROM owners
		WHERE tenant_id = $1 AND id = $2
	`
	var owner domain.Owner
	err := r.pool.QueryRow(ctx, query, tenantID, ownerID).Scan(
		&owner.ID,
		&owner.TenantID,
		&owner.Name,
		&owner.Phone,
		&owner.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Owner not found", nil)
			return nil, domain.ErrOwnerNotFound
		}
		repoLogger.Error("Failed to find owner by ID", err, nil)
		return nil, fmt.Errorf("failed to find owner by id: %w", err)
	}

	return &owner, nil
}

// ListSchedulingCandidates собирает кандидатов на цикл одним запросом:
// подтверждаемые объекты тенанта, контакты владельца и флаг уже существующей
// активной записи в месяце cycleMonth.
func (r *PostgresPropertyStorage) ListSchedulingCandidates(ctx context.Context, tenantID uuid.UUID, cycleMonth time.Time) ([]domain.SchedulingCandidate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresPropertyStorage",
		"method":    "ListSchedulingCandidates",
		"tenant_id": tenantID.String(),
	})

	confirmable := domain.ConfirmableStatuses()
	statuses := make([]string, 0, len(confirmable))
	for _, s := range confirmable {
		statuses = append(statuses, string(s))
	}

	query := `
		SELECT p.id, p.reference, p.status, p.owner_id, p.broker_id,
		       o.phone, o.email,
		       EXISTS (
		           SELECT 1 FROM scheduled_confirmations sc
		           WHERE sc.property_id = p.id
		             AND sc.status IN ('pending', 'sent')
		             AND date_trunc('month', sc.scheduled_for) = date_trunc('month', $2::timestamptz)
		       ) AS has_active_confirmation
		FROM properties p
		LEFT JOIN owners o ON o.id = p.owner_id AND o.tenant_id = p.tenant_id
		WHERE p.tenant_id = $1
		  AND p.status = ANY($3::text[])
		ORDER BY p.reference
	`
	rows, err := r.pool.Query(ctx, query, tenantID, cycleMonth, statuses)
	if err != nil {
		repoLogger.Error("Failed to query scheduling candidates", err, nil)
		return nil, fmt.Errorf("failed to query scheduling candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.SchedulingCandidate
	for rows.Next() {
		var c domain.SchedulingCandidate
		err := rows.Scan(
			&c.PropertyID,
			&c.Reference,
			&c.Status,
			&c.OwnerID,
			&c.BrokerID,
			&c.OwnerPhone,
			&c.OwnerEmail,
			&c.HasActiveConfirmation,
		)
		if err != nil {
			repoLogger.Error("Failed to scan scheduling candidate", err, nil)
			return nil, fmt.Errorf("failed to scan scheduling candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error iterating scheduling candidates", err, nil)
		return nil, fmt.Errorf("error iterating scheduling candidates: %w", err)
	}

	repoLogger.Debug("Scheduling candidates loaded", port.Fields{"count": len(candidates)})
	return candidates, nil
}

// ApplyOperatorConfirmation применяет прямое подтверждение сотрудника.
// Обновляются только те поля, которые оператор явно подтвердил.
func (r *PostgresPropertyStorage) ApplyOperatorConfirmation(ctx context.Context, cmd port.OperatorConfirmation) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresPropertyStorage",
		"method":      "ApplyOperatorConfirmation",
		"property_id": cmd.PropertyID.String(),
	})

	query := `
		UPDATE properties SET
			status              = COALESCE($3, status),
			status_confirmed_at = CASE WHEN $3::text IS NOT NULL THEN $5 ELSE status_confirmed_at END,
			price_amount        = COALESCE($4, price_amount),
			price_confirmed_at  = CASE WHEN $4::numeric IS NOT NULL THEN $5 ELSE price_confirmed_at END
		WHERE tenant_id = $1 AND id = $2
		RETURNING id, tenant_id, reference, property_type, neighborhood, city,
		          status, price_amount, status_confirmed_at, price_confirmed_at,
		          owner_id, broker_id
	`
	var property domain.Property
	err := r.pool.QueryRow(ctx, query,
		cmd.TenantID,
		cmd.PropertyID,
		cmd.ConfirmStatus,
		cmd.ConfirmPrice,
		cmd.ConfirmedAt,
	).Scan(
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
			return nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to apply operator confirmation", err, nil)
		return nil, fmt.Errorf("failed to apply operator confirmation: %w", err)
	}

	repoLogger.Info("Operator confirmation applied", nil)
	return &property, nil
}

// ListTenantIDs возвращает всех тенантов с объектами. Используется cron-прогонами.
func (r *PostgresPropertyStorage) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresPropertyStorage",
		"method":    "ListTenantIDs",
	})

	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tenant_id FROM properties ORDER BY tenant_id`)
	if err != nil {
		repoLogger.Error("Failed to query tenant IDs", err, nil)
		return nil, fmt.Errorf("failed to query tenant ids: %w", err)
	}
	defer rows.Close()

	var tenantIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			repoLogger.Error("Failed to scan tenant ID", err, nil)
			return nil, fmt.Errorf("failed to scan tenant id: %w", err)
		}
		tenantIDs = append(tenantIDs, id)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error iterating tenant IDs", err, nil)
		return nil, fmt.Errorf("error iterating tenant ids: %w", err)
	}

	return tenantIDs, nil
}
