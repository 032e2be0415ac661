package workers

import (
	"context"
	"database/sql"
	"time"

	"outbound_backend/internal/logger"

	"gorm.io/gorm"
)

// stuckAfter is how long a session may sit idle inside a transaction.
const stuckAfter = 10 * time.Minute

// MaintenanceWorker keeps the connection pool healthy.
type MaintenanceWorker struct {
	db              *gorm.DB
	sqlDB           *sql.DB
	maxIdleConns    int
	refreshInterval time.Duration
	stuckInterval   time.Duration
}

func NewMaintenanceWorker(db *gorm.DB, sqlDB *sql.DB, maxIdleConns int, refreshInterval, stuckInterval time.Duration) *MaintenanceWorker {
	if refreshInterval <= 0 {
		refreshInterval = 2 * time.Hour
	}
	if stuckInterval <= 0 {
		stuckInterval = 3 * time.Hour
	}
	return &MaintenanceWorker{
		db:              db,
		sqlDB:           sqlDB,
		maxIdleConns:    maxIdleConns,
		refreshInterval: refreshInterval,
		stuckInterval:   stuckInterval,
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	go w.every(ctx, w.refreshInterval, "refresh_connections", w.RefreshConnections)
	go w.every(ctx, w.stuckInterval, "cleanup_stuck_connections", w.CleanupStuckConnections)
}

func (w *MaintenanceWorker) every(ctx context.Context, interval time.Duration, operation string, run func(context.Context) (int64, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Maintenance worker stopped", "operation", operation)
			return
		case <-ticker.C:
			affected, err := run(ctx)
			logger.WorkerLog("maintenance", operation, err, "affected", affected)
		}
	}
}

// RefreshConnections drops idle pooled connections and checks the database is reachable.
func (w *MaintenanceWorker) RefreshConnections(ctx context.Context) (int64, error) {
	idle := int64(w.sqlDB.Stats().Idle)
	w.sqlDB.SetMaxIdleConns(0)
	w.sqlDB.SetMaxIdleConns(w.maxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return idle, w.sqlDB.PingContext(pingCtx)
}

// CleanupStuckConnections terminates sessions of this database left idle inside a transaction.
func (w *MaintenanceWorker) CleanupStuckConnections(ctx context.Context) (int64, error) {
	var terminated int64
	err := w.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = current_database()
			AND pid <> pg_backend_pid()
			AND state = 'idle in transaction'
			AND state_change < NOW() - make_interval(secs => ?)
		) AS terminated
	`, int(stuckAfter.Seconds())).Scan(&terminated).Error
	return terminated, err
}
