// Package sqlite provides a SQLite implementation of the lore store ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/lore-reader/internal/domain/entities"
	"github.com/ersonp/lore-reader/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.LoreStore, ports.LoreWriter and ports.LoreLister
// using SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Connection-scoped pragmas go in the DSN so every pooled connection
	// gets them.
	dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL lets readers run alongside the seed writer
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Lore entities, unique per novel
	CREATE TABLE IF NOT EXISTS lore_entities (
		novel_id TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (novel_id, entity_id)
	);

	-- Disclosure fragments; position keeps insertion order
	CREATE TABLE IF NOT EXISTS lore_fragments (
		id TEXT PRIMARY KEY,
		novel_id TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		min_chapter INTEGER NOT NULL CHECK (min_chapter >= 0),
		content TEXT NOT NULL,
		UNIQUE (novel_id, entity_id, position),
		FOREIGN KEY (novel_id, entity_id)
			REFERENCES lore_entities (novel_id, entity_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_lore_fragments_entity ON lore_fragments(novel_id, entity_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Fetch returns an entity with every fragment in storage order. Both reads
// share one read transaction so a concurrent SaveEntity is seen whole or not
// at all.
func (r *Repository) Fetch(ctx context.Context, novelID, entityID string) (*entities.LoreEntity, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: beginning read: %w", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		SELECT novel_id, entity_id, name, type
		FROM lore_entities
		WHERE novel_id = ? AND entity_id = ?
	`
	row := tx.QueryRowContext(ctx, query, novelID, entityID)

	var entity entities.LoreEntity
	err = row.Scan(&entity.NovelID, &entity.EntityID, &entity.Name, &entity.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lore entity %s/%s: %w", novelID, entityID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanning lore entity: %w", entities.ErrStoreUnavailable, err)
	}

	frags, err := readFragments(ctx, tx, novelID, entityID)
	if err != nil {
		return nil, err
	}
	entity.Fragments = frags

	return &entity, nil
}

func readFragments(ctx context.Context, tx *sql.Tx, novelID, entityID string) ([]entities.DisclosureFragment, error) {
	query := `
		SELECT min_chapter, content
		FROM lore_fragments
		WHERE novel_id = ? AND entity_id = ?
		ORDER BY position ASC
	`
	rows, err := tx.QueryContext(ctx, query, novelID, entityID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying lore fragments: %w", entities.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	result := []entities.DisclosureFragment{}
	for rows.Next() {
		var f entities.DisclosureFragment
		if err := rows.Scan(&f.MinChapter, &f.Content); err != nil {
			return nil, fmt.Errorf("%w: scanning lore fragment: %w", entities.ErrStoreUnavailable, err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating lore fragments: %w", entities.ErrStoreUnavailable, err)
	}
	return result, nil
}

// SaveEntity creates or replaces an entity and all of its fragments atomically.
func (r *Repository) SaveEntity(ctx context.Context, entity *entities.LoreEntity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO lore_entities (novel_id, entity_id, name, type, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(novel_id, entity_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert,
		entity.NovelID,
		entity.EntityID,
		entity.Name,
		entity.Type,
		timeNow().UTC(),
	); err != nil {
		return fmt.Errorf("saving lore entity: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM lore_fragments WHERE novel_id = ? AND entity_id = ?`,
		entity.NovelID, entity.EntityID,
	); err != nil {
		return fmt.Errorf("clearing lore fragments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lore_fragments (id, novel_id, entity_id, position, min_chapter, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing fragment insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range entity.Fragments {
		if _, err := stmt.ExecContext(ctx,
			generateUUID(),
			entity.NovelID,
			entity.EntityID,
			i,
			f.MinChapter,
			f.Content,
		); err != nil {
			return fmt.Errorf("saving lore fragment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing lore entity: %w", err)
	}
	return nil
}

// ListEntities lists entities for a novel ordered by entity id, without fragments.
func (r *Repository) ListEntities(ctx context.Context, novelID string, limit, offset int) ([]*entities.LoreEntity, error) {
	query := `
		SELECT novel_id, entity_id, name, type
		FROM lore_entities
		WHERE novel_id = ?
		ORDER BY entity_id ASC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, novelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: querying lore entities: %w", entities.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	result := []*entities.LoreEntity{}
	for rows.Next() {
		var entity entities.LoreEntity
		if err := rows.Scan(&entity.NovelID, &entity.EntityID, &entity.Name, &entity.Type); err != nil {
			return nil, fmt.Errorf("%w: scanning lore entity: %w", entities.ErrStoreUnavailable, err)
		}
		result = append(result, &entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating lore entities: %w", entities.ErrStoreUnavailable, err)
	}
	return result, nil
}

// CountEntities returns the number of entities stored for a novel.
func (r *Repository) CountEntities(ctx context.Context, novelID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lore_entities WHERE novel_id = ?`, novelID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting lore entities: %w", entities.ErrStoreUnavailable, err)
	}
	return count, nil
}
