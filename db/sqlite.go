package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"loanpredict/ml"
)

// Registry stores versioned model artifacts in SQLite. It holds artifacts only;
// predictions are never written here.
type Registry struct {
	database *sql.DB
}

type ArtifactRecord struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Checksum  string    `json:"checksum"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenRegistry opens (or creates) the registry database at path.
func OpenRegistry(path string) (*Registry, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS model_artifacts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        version TEXT NOT NULL,
        checksum TEXT NOT NULL,
        payload BLOB NOT NULL,
        created_at DATETIME NOT NULL,
        UNIQUE(name, version)
    );
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Registry{database: database}, nil
}

// SaveArtifact stores payload under name and version, replacing an existing
// row with the same pair.
func (r *Registry) SaveArtifact(ctx context.Context, name, version string, payload []byte) (ArtifactRecord, error) {
	if name == "" || version == "" {
		return ArtifactRecord{}, errors.New("artifact name and version are required")
	}
	if len(payload) == 0 {
		return ArtifactRecord{}, errors.New("artifact payload is empty")
	}

	sum := sha256.Sum256(payload)
	record := ArtifactRecord{
		Name:      name,
		Version:   version,
		Checksum:  hex.EncodeToString(sum[:]),
		Size:      len(payload),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := r.database.BeginTx(ctx, nil)
	if err != nil {
		return ArtifactRecord{}, err
	}
	// delete then insert so a re-registered version becomes the newest row
	if _, err := tx.ExecContext(ctx, `DELETE FROM model_artifacts WHERE name = ? AND version = ?`, name, version); err != nil {
		tx.Rollback()
		return ArtifactRecord{}, err
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO model_artifacts (name, version, checksum, payload, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		record.Name, record.Version, record.Checksum, payload, record.CreatedAt)
	if err != nil {
		tx.Rollback()
		return ArtifactRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return ArtifactRecord{}, err
	}
	return record, nil
}

// LatestArtifact returns the most recently registered payload for name.
func (r *Registry) LatestArtifact(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := r.database.QueryRowContext(ctx, `
        SELECT payload
        FROM model_artifacts
        WHERE name = ?
        ORDER BY id DESC
        LIMIT 1`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: registry has no %q", ml.ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *Registry) ListArtifacts(ctx context.Context) ([]ArtifactRecord, error) {
	rows, err := r.database.QueryContext(ctx, `
        SELECT name, version, checksum, length(payload), created_at
        FROM model_artifacts
        ORDER BY name, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ArtifactRecord, 0)
	for rows.Next() {
		var rec ArtifactRecord
		if err := rows.Scan(&rec.Name, &rec.Version, &rec.Checksum, &rec.Size, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Registry) Close() error {
	return r.database.Close()
}
