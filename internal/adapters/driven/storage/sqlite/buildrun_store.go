package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// buildRunStore implements driven.BuildRunStore.
type buildRunStore struct {
	store *Store
}

var _ driven.BuildRunStore = (*buildRunStore)(nil)

// Save records a build run. Saving an existing id replaces it.
func (s *buildRunStore) Save(ctx context.Context, run domain.BuildRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: build run id required", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO build_runs (id, collection_key, build_path, started_at, duration_ms,
			added, changed, deleted, updated, bootstrapped, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection_key = excluded.collection_key,
			build_path = excluded.build_path,
			started_at = excluded.started_at,
			duration_ms = excluded.duration_ms,
			added = excluded.added,
			changed = excluded.changed,
			deleted = excluded.deleted,
			updated = excluded.updated,
			bootstrapped = excluded.bootstrapped,
			error = excluded.error
	`, run.ID, run.CollectionKey, run.BuildPath,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
		run.Added, run.Changed, run.Deleted,
		boolToInt(run.Updated), boolToInt(run.Bootstrapped),
		nullString(run.Error))

	if err != nil {
		return fmt.Errorf("saving build run: %w", err)
	}
	return nil
}

// List returns recent runs ordered by start time descending (most recent first).
func (s *buildRunStore) List(ctx context.Context, collectionKey string, limit int) ([]domain.BuildRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, collection_key, build_path, started_at, duration_ms,
			added, changed, deleted, updated, bootstrapped, error
		FROM build_runs
		WHERE ? = '' OR collection_key = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, collectionKey, collectionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("querying build runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.BuildRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanBuildRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build runs: %w", err)
	}

	return runs, nil
}

func scanBuildRun(rows *sql.Rows) (*domain.BuildRun, error) {
	var (
		run          domain.BuildRun
		startedAt    string
		durationMS   int64
		updated      int
		bootstrapped int
		runErr       sql.NullString
	)

	err := rows.Scan(&run.ID, &run.CollectionKey, &run.BuildPath, &startedAt, &durationMS,
		&run.Added, &run.Changed, &run.Deleted, &updated, &bootstrapped, &runErr)
	if err != nil {
		return nil, fmt.Errorf("scanning build run: %w", err)
	}

	run.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Updated = updated != 0
	run.Bootstrapped = bootstrapped != 0
	run.Error = runErr.String
	return &run, nil
}
