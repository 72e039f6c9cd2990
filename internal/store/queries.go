package store

// Configuration queries
const (
	queryGetConfiguration = `
		SELECT fs_root, updated_at
		FROM configuration WHERE id = 1`

	queryUpsertConfiguration = `
		INSERT INTO configuration (id, fs_root, updated_at)
		VALUES (1, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			fs_root = EXCLUDED.fs_root,
			updated_at = now()`
)

// Operation queries
const (
	queryInsertOperation = `
		INSERT INTO operations (id, engine, kind, path, result, error, started_at, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryPruneOperations = `DELETE FROM operations WHERE started_at < ?`
)
