package store

const (
	createAnalysesTable = `
		CREATE TABLE IF NOT EXISTS analyses (
			id          TEXT PRIMARY KEY,
			audio_name  TEXT NOT NULL,
			categories  TEXT NOT NULL,
			transcript  TEXT NOT NULL,
			lines       TEXT NOT NULL,
			line_count  INTEGER NOT NULL,
			critical    INTEGER NOT NULL,
			warning     INTEGER NOT NULL,
			created_at  TEXT NOT NULL
		)
	`

	createCreatedAtIndex = `CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`

	saveAnalysisQuery = `
		INSERT INTO analyses (id, audio_name, categories, transcript, lines, line_count, critical, warning, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			audio_name = excluded.audio_name,
			categories = excluded.categories,
			transcript = excluded.transcript,
			lines = excluded.lines,
			line_count = excluded.line_count,
			critical = excluded.critical,
			warning = excluded.warning,
			created_at = excluded.created_at
	`

	getAnalysisQuery = `
		SELECT id, audio_name, categories, transcript, lines, created_at
		FROM analyses
		WHERE id = ?
	`

	listAnalysesQuery = `
		SELECT id, audio_name, line_count, critical, warning, created_at
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	deleteAnalysisQuery = `DELETE FROM analyses WHERE id = ?`
)
