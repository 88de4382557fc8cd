package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatchStatus - статусы пакетного импорта
type ImportBatchStatus string

const (
	ImportProcessing ImportBatchStatus = "processing"
	ImportCompleted  ImportBatchStatus = "completed"
	ImportFailed     ImportBatchStatus = "failed"
)

// ImportBatch - пакет XML/XLS-импорта. Пишет его внешний импортер,
// этот сервис только отдает состояние для поллинга из дашборда.
type ImportBatch struct {
	ID                             uuid.UUID         `json:"batch_id"`
	TenantID                       uuid.UUID         `json:"tenant_id"`
	Status                         ImportBatchStatus `json:"status"`
	TotalXMLRecords                int               `json:"total_xml_records"`
	TotalPropertiesCreated         int               `json:"total_properties_created"`
	TotalPropertiesMatchedExisting int               `json:"total_properties_matched_existing"`
	TotalErrors                    int               `json:"total_errors"`
	StartedAt                      time.Time         `json:"started_at"`
	CompletedAt                    *time.Time        `json:"completed_at"`
}
