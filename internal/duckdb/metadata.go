package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// StatFiles fingerprints each path, skipping stdin ("-").
func StatFiles(paths ...string) ([]FileFingerprint, error) {
	var fps []FileFingerprint
	for _, p := range paths {
		if p == "-" {
			continue
		}
		fp, err := StatFile(p)
		if err != nil {
			return nil, err
		}
		fps = append(fps, fp)
	}
	return fps, nil
}

// BeginRun records a new run of tool over the given inputs and returns its ID.
func (s *Store) BeginRun(tool string, inputs ...FileFingerprint) (string, error) {
	runID := uuid.NewString()

	if _, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?)`,
		runID, tool, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, in := range inputs {
		if _, err := s.db.Exec(`INSERT INTO run_inputs VALUES (?, ?, ?, ?)`,
			runID, in.Path, in.Size, in.ModTime.UTC()); err != nil {
			return "", fmt.Errorf("insert run input: %w", err)
		}
	}

	return runID, nil
}

// Run describes a recorded run.
type Run struct {
	ID        string
	Tool      string
	CreatedAt time.Time
	Inputs    []FileFingerprint
}

// LatestRun returns the most recent run of tool, or nil if there is none.
func (s *Store) LatestRun(tool string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT run_id, tool, created_at FROM runs
		WHERE tool=? ORDER BY created_at DESC LIMIT 1`, tool).
		Scan(&r.ID, &r.Tool, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.Query(`SELECT path, size, mod_time FROM run_inputs
		WHERE run_id=? ORDER BY path`, r.ID)
	if err != nil {
		return nil, fmt.Errorf("query run inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp FileFingerprint
		if err := rows.Scan(&fp.Path, &fp.Size, &fp.ModTime); err != nil {
			return nil, fmt.Errorf("scan run input: %w", err)
		}
		r.Inputs = append(r.Inputs, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run inputs: %w", err)
	}

	return &r, nil
}
