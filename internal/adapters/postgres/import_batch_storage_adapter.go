package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

// PostgresImportBatchStorage - read-only доступ к пакетам импорта.
// Таблицу пишет внешний импортер, отсюда идет только поллинг состояния.
type PostgresImportBatchStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresImportBatchStorage - конструктор.
func NewPostgresImportBatchStorage(pool *pgxpool.Pool) (*PostgresImportBatchStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresImportBatchStorage{pool: pool}, nil
}

// GetByID находит пакет импорта тенанта по ID.
func (r *PostgresImportBatchStorage) GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.ImportBatch, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresImportBatchStorage",
		"method":    "GetByID",
		"batch_id":  batchID.String(),
	})

	query := `
		SELECT id, tenant_id, status, total_xml_records, total_properties_created,
		       total_properties_matched_existing, total_errors, started_at, completed_at
		FROM import_batches
		WHERE tenant_id = $1 AND id = $2
	`
	var batch domain.ImportBatch
	err := r.pool.QueryRow(ctx, query, tenantID, batchID).Scan(
		&batch.ID,
		&batch.TenantID,
		&batch.Status,
		&batch.TotalXMLRecords,
		&batch.TotalPropertiesCreated,
		&batch.TotalPropertiesMatchedExisting,
		&batch.TotalErrors,
		&batch.StartedAt,
		&batch.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Import batch not found", nil)
			return nil, domain.ErrImportBatchNotFound
		}
		repoLogger.Error("Failed to find import batch by ID", err, nil)
		return nil, fmt.Errorf("failed to find import batch by id: %w", err)
	}

	return &batch, nil
}
