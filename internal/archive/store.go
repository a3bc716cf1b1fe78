package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tusabogados/intake-platform/internal/intake"
)

// Store persists finished intakes to PostgreSQL for the back office. The
// live conversation never depends on it: a nil store drops writes silently,
// matching the platform's no-database deployments.
type Store struct {
	db *sql.DB
}

// NewStore creates an intake archive store; nil db disables archiving.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Record is one archived intake row.
type Record struct {
	ID          uuid.UUID
	SessionID   string
	Name        string
	Email       string
	Phone       string
	Role        string
	Category    string
	Description string
	SlotID      string
	SlotLabel   string
	Stage       string
	TurnCount   int
	CreatedAt   time.Time
}

// SaveIntake archives a finished session together with its transcript.
func (s *Store) SaveIntake(ctx context.Context, sess *intake.Session, transcript []intake.TranscriptMessage) error {
	if s == nil || s.db == nil {
		return nil
	}
	if sess == nil {
		return fmt.Errorf("archive: session required")
	}

	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("archive: marshal transcript: %w", err)
	}

	var slotID, slotLabel string
	if sess.ConfirmedSlot != nil {
		slotID = sess.ConfirmedSlot.ID
		slotLabel = sess.ConfirmedSlot.Label
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO intakes (
			id, session_id, name, email, phone, role, category, description,
			slot_id, slot_label, stage, turn_count, transcript, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (session_id) DO UPDATE SET
			stage = EXCLUDED.stage,
			turn_count = EXCLUDED.turn_count,
			transcript = EXCLUDED.transcript
	`, uuid.New(), sess.ID, sess.Name, sess.Email, sess.Phone,
		string(sess.Role), string(sess.Category), sess.Description,
		slotID, slotLabel, string(sess.Stage), sess.TurnCount,
		transcriptJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("archive: insert intake: %w", err)
	}
	return nil
}

// ListRecent returns the most recently archived intakes, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, name, email, phone, role, category, description,
		       slot_id, slot_label, stage, turn_count, created_at
		FROM intakes
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: list intakes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Name, &rec.Email, &rec.Phone,
			&rec.Role, &rec.Category, &rec.Description,
			&rec.SlotID, &rec.SlotLabel, &rec.Stage, &rec.TurnCount, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("archive: scan intake: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
