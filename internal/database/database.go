// Package database persists stream definitions, calibration sessions
// and periodic occupancy snapshots in SQLite.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Database handles SQLite database operations.
type Database struct {
	db *sql.DB
}

// StreamRecord represents a monitored video stream.
type StreamRecord struct {
	ID         string
	Name       string
	Device     string
	Resolution string
	FPS        int
	LayoutPath string
	Status     string
	CreatedAt  time.Time
}

// CalibrationRecord stores one calibration session for a stream.
type CalibrationRecord struct {
	ID              string
	StreamID        string
	Timestamp       time.Time
	Threshold       int
	LowThreshold    int
	HighThreshold   int
	MeanEmpty       float64
	MeanOccupied    float64
	StdDev          float64
	BrightnessAvg   float64
	ContrastAvg     float64
	SamplesAnalyzed int
	FramesAnalyzed  int
	Reason          string
}

// SnapshotRecord stores a point-in-time occupancy summary.
type SnapshotRecord struct {
	ID            string
	StreamID      string
	Timestamp     time.Time
	FrameSeq      uint64
	Threshold     int
	TotalSpaces   int
	FreeSpaces    int
	OccupancyRate float64
	Verdicts      []bool
}

// New opens the database and applies the connection pragmas.
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for concurrent snapshot writers and API readers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Migrate runs database migrations.
func (d *Database) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS streams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			device TEXT NOT NULL,
			resolution TEXT,
			fps INTEGER DEFAULT 10,
			layout_path TEXT,
			status TEXT DEFAULT 'inactive',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS calibrations (
			id TEXT PRIMARY KEY,
			stream_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			threshold INTEGER NOT NULL,
			low_threshold INTEGER NOT NULL,
			high_threshold INTEGER NOT NULL,
			mean_empty REAL,
			mean_occupied REAL,
			std_dev REAL,
			brightness_avg REAL,
			contrast_avg REAL,
			samples_analyzed INTEGER,
			frames_analyzed INTEGER,
			reason TEXT,
			FOREIGN KEY (stream_id) REFERENCES streams(id)
		)`,
		`CREATE TABLE IF NOT EXISTS occupancy_snapshots (
			id TEXT PRIMARY KEY,
			stream_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			frame_seq INTEGER NOT NULL,
			threshold INTEGER NOT NULL,
			total_spaces INTEGER NOT NULL,
			free_spaces INTEGER NOT NULL,
			occupancy_rate REAL NOT NULL,
			verdicts TEXT,
			FOREIGN KEY (stream_id) REFERENCES streams(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calibrations_stream_time ON calibrations(stream_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_stream_time ON occupancy_snapshots(stream_id, timestamp DESC)`,
	}

	for _, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("[DB] migrations completed")
	return nil
}

// SaveStream saves or updates a stream.
func (d *Database) SaveStream(s *StreamRecord) error {
	query := `INSERT INTO streams (id, name, device, resolution, fps, layout_path, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			device = excluded.device,
			resolution = excluded.resolution,
			fps = excluded.fps,
			layout_path = excluded.layout_path,
			status = excluded.status`

	_, err := d.db.Exec(query, s.ID, s.Name, s.Device, s.Resolution, s.FPS, s.LayoutPath, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save stream: %w", err)
	}
	return nil
}

// GetStream retrieves a stream by ID. Returns nil when not found.
func (d *Database) GetStream(id string) (*StreamRecord, error) {
	query := `SELECT id, name, device, resolution, fps, layout_path, status, created_at FROM streams WHERE id = ?`

	var s StreamRecord
	err := d.db.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.Device, &s.Resolution, &s.FPS, &s.LayoutPath, &s.Status, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	return &s, nil
}

// ListStreams returns all streams.
func (d *Database) ListStreams() ([]*StreamRecord, error) {
	query := `SELECT id, name, device, resolution, fps, layout_path, status, created_at FROM streams ORDER BY created_at DESC`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	defer rows.Close()

	var streams []*StreamRecord
	for rows.Next() {
		var s StreamRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.Device, &s.Resolution, &s.FPS, &s.LayoutPath, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stream: %w", err)
		}
		streams = append(streams, &s)
	}
	return streams, nil
}

// UpdateStreamStatus updates only the status of a stream.
func (d *Database) UpdateStreamStatus(id, status string) error {
	_, err := d.db.Exec("UPDATE streams SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update stream status: %w", err)
	}
	return nil
}

// DeleteStream deletes a stream by ID.
func (d *Database) DeleteStream(id string) error {
	_, err := d.db.Exec("DELETE FROM streams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete stream: %w", err)
	}
	return nil
}

// SaveCalibration records a calibration session.
func (d *Database) SaveCalibration(c *CalibrationRecord) error {
	query := `INSERT INTO calibrations
		(id, stream_id, timestamp, threshold, low_threshold, high_threshold,
		 mean_empty, mean_occupied, std_dev, brightness_avg, contrast_avg,
		 samples_analyzed, frames_analyzed, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.Exec(query, c.ID, c.StreamID, c.Timestamp, c.Threshold,
		c.LowThreshold, c.HighThreshold, c.MeanEmpty, c.MeanOccupied,
		c.StdDev, c.BrightnessAvg, c.ContrastAvg, c.SamplesAnalyzed,
		c.FramesAnalyzed, c.Reason)
	if err != nil {
		return fmt.Errorf("failed to save calibration: %w", err)
	}
	return nil
}

// LatestCalibration returns the most recent calibration for a stream,
// or nil when the stream was never calibrated.
func (d *Database) LatestCalibration(streamID string) (*CalibrationRecord, error) {
	query := `SELECT id, stream_id, timestamp, threshold, low_threshold, high_threshold,
		mean_empty, mean_occupied, std_dev, brightness_avg, contrast_avg,
		samples_analyzed, frames_analyzed, reason
		FROM calibrations WHERE stream_id = ? ORDER BY timestamp DESC LIMIT 1`

	var c CalibrationRecord
	err := d.db.QueryRow(query, streamID).Scan(&c.ID, &c.StreamID, &c.Timestamp,
		&c.Threshold, &c.LowThreshold, &c.HighThreshold, &c.MeanEmpty,
		&c.MeanOccupied, &c.StdDev, &c.BrightnessAvg, &c.ContrastAvg,
		&c.SamplesAnalyzed, &c.FramesAnalyzed, &c.Reason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calibration: %w", err)
	}
	return &c, nil
}

// ListCalibrations returns calibrations for a stream, newest first.
func (d *Database) ListCalibrations(streamID string, limit int) ([]*CalibrationRecord, error) {
	query := `SELECT id, stream_id, timestamp, threshold, low_threshold, high_threshold,
		mean_empty, mean_occupied, std_dev, brightness_avg, contrast_avg,
		samples_analyzed, frames_analyzed, reason
		FROM calibrations WHERE stream_id = ? ORDER BY timestamp DESC`
	args := []interface{}{streamID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calibrations: %w", err)
	}
	defer rows.Close()

	var out []*CalibrationRecord
	for rows.Next() {
		var c CalibrationRecord
		if err := rows.Scan(&c.ID, &c.StreamID, &c.Timestamp, &c.Threshold,
			&c.LowThreshold, &c.HighThreshold, &c.MeanEmpty, &c.MeanOccupied,
			&c.StdDev, &c.BrightnessAvg, &c.ContrastAvg, &c.SamplesAnalyzed,
			&c.FramesAnalyzed, &c.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan calibration: %w", err)
		}
		out = append(out, &c)
	}
	return out, nil
}

// SaveSnapshot records an occupancy summary.
func (d *Database) SaveSnapshot(s *SnapshotRecord) error {
	verdictsJSON, err := json.Marshal(s.Verdicts)
	if err != nil {
		return fmt.Errorf("failed to marshal verdicts: %w", err)
	}

	query := `INSERT INTO occupancy_snapshots
		(id, stream_id, timestamp, frame_seq, threshold, total_spaces, free_spaces, occupancy_rate, verdicts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = d.db.Exec(query, s.ID, s.StreamID, s.Timestamp, s.FrameSeq,
		s.Threshold, s.TotalSpaces, s.FreeSpaces, s.OccupancyRate, string(verdictsJSON))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns snapshots for a stream with optional filtering.
func (d *Database) ListSnapshots(streamID string, since *time.Time, limit int) ([]*SnapshotRecord, error) {
	query := `SELECT id, stream_id, timestamp, frame_seq, threshold, total_spaces, free_spaces, occupancy_rate, verdicts
		FROM occupancy_snapshots WHERE stream_id = ?`
	args := []interface{}{streamID}

	if since != nil {
		query += " AND timestamp >= ?"
		args = append(args, *since)
	}

	query += " ORDER BY timestamp DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*SnapshotRecord
	for rows.Next() {
		var s SnapshotRecord
		var verdictsJSON string
		if err := rows.Scan(&s.ID, &s.StreamID, &s.Timestamp, &s.FrameSeq,
			&s.Threshold, &s.TotalSpaces, &s.FreeSpaces, &s.OccupancyRate, &verdictsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if verdictsJSON != "" {
			if err := json.Unmarshal([]byte(verdictsJSON), &s.Verdicts); err != nil {
				return nil, fmt.Errorf("failed to unmarshal verdicts: %w", err)
			}
		}
		out = append(out, &s)
	}
	return out, nil
}

// DeleteOldSnapshots deletes snapshots older than the specified time.
func (d *Database) DeleteOldSnapshots(before time.Time) (int64, error) {
	result, err := d.db.Exec("DELETE FROM occupancy_snapshots WHERE timestamp < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", err)
	}
	return result.RowsAffected()
}
