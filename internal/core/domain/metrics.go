package domain

// DefaultStalenessThresholdDays - порог "протухания" подтверждения.
// Должен совпадать с порогом предупреждения в дашборде. Переопределяется
// через STALENESS_THRESHOLD_DAYS.
const DefaultStalenessThresholdDays = 15

// StalenessBuckets - распределение объектов по свежести подтверждений
type StalenessBuckets struct {
	FreshStatus    int64 `json:"fresh_status"`
	StaleStatus    int64 `json:"stale_status"`
	FreshPrice     int64 `json:"fresh_price"`
	StalePrice     int64 `json:"stale_price"`
	NeverConfirmed int64 `json:"never_confirmed"`
}

// ConfirmationMetrics - операционная сводка по одному тенанту.
// Только чтение, никаких побочных эффектов.
type ConfirmationMetrics struct {
	StatusCounts           map[ConfirmationStatus]int64 `json:"status_counts"`
	Staleness              StalenessBuckets             `json:"staleness"`
	StalenessThresholdDays int                          `json:"staleness_threshold_days"`
}
