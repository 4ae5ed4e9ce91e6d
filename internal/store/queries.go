package store

// Configuration queries
const (
	queryGetConfiguration = `
		SELECT max_active_tasks, updated_at
		FROM configuration WHERE id = 1`

	queryUpsertConfiguration = `
		INSERT INTO configuration (id, max_active_tasks, updated_at)
		VALUES (1, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			max_active_tasks = EXCLUDED.max_active_tasks,
			updated_at = now()`

	queryDeleteConfiguration = `DELETE FROM configuration WHERE id = 1`
)

// Task failure queries
const (
	queryInsertTaskFailure = `
		INSERT INTO task_failures (task_id, priority, subject, site, error, failed_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryPruneTaskFailures = `
		DELETE FROM task_failures
		WHERE id NOT IN (SELECT id FROM task_failures ORDER BY id DESC LIMIT ?)`
)
