package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Capture session history operations

// SessionRecord is one row of capture history.
type SessionRecord struct {
	ID              int64
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *int
	Status          string
	StopReason      *string
	TotalFrames     int
	UsedFrames      int
	SkippedFrames   int
	FinalHeight     int
	OutputPath      *string
	ErrorMessage    *string
}

// StartSession creates a new capture-session entry and returns its ID
func (db *DB) StartSession() (int64, error) {
	var sessionID int64
	err := db.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO capture_sessions (started_at, status)
			VALUES (?, 'running')
		`, time.Now())
		if err != nil {
			return fmt.Errorf("failed to insert capture session: %w", err)
		}

		sessionID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return sessionID, nil
}

// CompleteSession marks a session finished and records its stitch stats
func (db *DB) CompleteSession(sessionID int64, stopReason string, totalFrames, usedFrames, skippedFrames, finalHeight int, outputPath string) error {
	return db.finishSession(sessionID, "completed", &stopReason, totalFrames, usedFrames, skippedFrames, finalHeight, &outputPath, nil)
}

// FailSession marks a session failed with an error message
func (db *DB) FailSession(sessionID int64, errorMessage string) error {
	return db.finishSession(sessionID, "failed", nil, 0, 0, 0, 0, nil, &errorMessage)
}

// AbortSession marks a session cancelled by the user
func (db *DB) AbortSession(sessionID int64, reason string) error {
	return db.finishSession(sessionID, "aborted", &reason, 0, 0, 0, 0, nil, nil)
}

func (db *DB) finishSession(sessionID int64, status string, stopReason *string, totalFrames, usedFrames, skippedFrames, finalHeight int, outputPath, errorMessage *string) error {
	return db.ExecTx(func(tx *sql.Tx) error {
		completedAt := time.Now()

		var startedAt time.Time
		err := tx.QueryRow(`SELECT started_at FROM capture_sessions WHERE id = ?`, sessionID).Scan(&startedAt)
		if err != nil {
			return fmt.Errorf("failed to get session start time: %w", err)
		}

		duration := int(completedAt.Sub(startedAt).Seconds())

		_, err = tx.Exec(`
			UPDATE capture_sessions
			SET completed_at = ?,
				duration_seconds = ?,
				status = ?,
				stop_reason = ?,
				total_frames = ?,
				used_frames = ?,
				skipped_frames = ?,
				final_height = ?,
				output_path = ?,
				error_message = ?
			WHERE id = ?
		`, completedAt, duration, status, stopReason,
			totalFrames, usedFrames, skippedFrames, finalHeight,
			outputPath, errorMessage, sessionID)

		return err
	})
}

// GetSessionByID retrieves one capture session by ID
func (db *DB) GetSessionByID(sessionID int64) (*SessionRecord, error) {
	record := &SessionRecord{}
	err := db.conn.QueryRow(`
		SELECT
			id, started_at, completed_at, duration_seconds, status,
			stop_reason, total_frames, used_frames, skipped_frames,
			final_height, output_path, error_message
		FROM capture_sessions
		WHERE id = ?
	`, sessionID).Scan(
		&record.ID, &record.StartedAt, &record.CompletedAt,
		&record.DurationSeconds, &record.Status, &record.StopReason,
		&record.TotalFrames, &record.UsedFrames, &record.SkippedFrames,
		&record.FinalHeight, &record.OutputPath, &record.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetRecentSessions returns the most recent capture sessions
func (db *DB) GetRecentSessions(limit int) ([]*SessionRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.conn.Query(`
		SELECT
			id, started_at, completed_at, duration_seconds, status,
			stop_reason, total_frames, used_frames, skipped_frames,
			final_height, output_path, error_message
		FROM capture_sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*SessionRecord{}
	for rows.Next() {
		record := &SessionRecord{}
		err := rows.Scan(
			&record.ID, &record.StartedAt, &record.CompletedAt,
			&record.DurationSeconds, &record.Status, &record.StopReason,
			&record.TotalFrames, &record.UsedFrames, &record.SkippedFrames,
			&record.FinalHeight, &record.OutputPath, &record.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
