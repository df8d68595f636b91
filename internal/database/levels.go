package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// ErrLevelNotFound is returned when a stored level lookup fails.
var ErrLevelNotFound = errors.New("level not found")

// StoredLevel is a generated level persisted as YAML.
type StoredLevel struct {
	ID        string
	Seed      int64
	Mode      string
	Data      []byte
	CreatedAt time.Time
}

// Level decodes the stored YAML.
func (s *StoredLevel) Level() (*worldgen.Level, error) {
	return worldgen.Unmarshal(s.Data)
}

// SaveLevel stores a level and returns its id. A level already stored for the
// same seed and mode keeps its id.
func (d *Database) SaveLevel(level *worldgen.Level) (string, error) {
	existing, err := d.GetLevelBySeed(level.Seed, level.Mode.String())
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrLevelNotFound) {
		return "", err
	}

	data, err := worldgen.Marshal(level)
	if err != nil {
		return "", err
	}

	stored := &StoredLevel{
		ID:        uuid.NewString(),
		Seed:      level.Seed,
		Mode:      level.Mode.String(),
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := d.ImportLevel(stored); err != nil {
		// Lost a race with another writer for the same seed.
		if d.dialect.IsDuplicateKeyError(err) {
			existing, getErr := d.GetLevelBySeed(level.Seed, level.Mode.String())
			if getErr == nil {
				return existing.ID, nil
			}
		}
		return "", err
	}
	return stored.ID, nil
}

// ImportLevel inserts a stored level as is.
func (d *Database) ImportLevel(s *StoredLevel) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("invalid level id %q: %w", s.ID, err)
	}
	_, err := d.db.Exec(
		d.q("INSERT INTO levels (id, seed, mode, data, created_at) VALUES (?, ?, ?, ?, ?)"),
		s.ID, s.Seed, s.Mode, string(s.Data), s.CreatedAt,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to save level: %w", err)
	}
	return nil
}

// GetLevel retrieves a stored level by id.
func (d *Database) GetLevel(id string) (*StoredLevel, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrLevelNotFound
	}
	row := d.db.QueryRow(d.q("SELECT id, seed, mode, data, created_at FROM levels WHERE id = ?"), id)
	return scanLevel(row)
}

// GetLevelBySeed retrieves the stored level for a seed and mode.
func (d *Database) GetLevelBySeed(seed int64, mode string) (*StoredLevel, error) {
	row := d.db.QueryRow(d.q("SELECT id, seed, mode, data, created_at FROM levels WHERE seed = ? AND mode = ?"), seed, mode)
	return scanLevel(row)
}

func scanLevel(row *sql.Row) (*StoredLevel, error) {
	var s StoredLevel
	var data string
	if err := row.Scan(&s.ID, &s.Seed, &s.Mode, &data, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	s.Data = []byte(data)
	return &s, nil
}

// ListLevels returns stored levels, newest first, without their YAML.
func (d *Database) ListLevels(limit int) ([]StoredLevel, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(d.q("SELECT id, seed, mode, created_at FROM levels ORDER BY created_at DESC, seed ASC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []StoredLevel
	for rows.Next() {
		var s StoredLevel
		if err := rows.Scan(&s.ID, &s.Seed, &s.Mode, &s.CreatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

// AllLevels returns every stored level including its YAML.
func (d *Database) AllLevels() ([]StoredLevel, error) {
	rows, err := d.db.Query("SELECT id, seed, mode, data, created_at FROM levels ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []StoredLevel
	for rows.Next() {
		var s StoredLevel
		var data string
		if err := rows.Scan(&s.ID, &s.Seed, &s.Mode, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Data = []byte(data)
		levels = append(levels, s)
	}
	return levels, rows.Err()
}
