// ABOUTME: SQLite-backed contact store
// ABOUTME: Loads and atomically replaces the whole contact collection
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/donorbase/models"
)

// ContactStore persists the contact collection. Each Replace rewrites the table inside a
// transaction so readers never observe a half-written collection.
type ContactStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewContactStore(db *sql.DB, logger *zap.Logger) *ContactStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactStore{db: db, logger: logger}
}

// Load returns the stored collection in insertion order.
func (s *ContactStore) Load(ctx context.Context) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := []models.Contact{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		var c models.Contact
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, fmt.Errorf("failed to decode contact %s: %w", id, err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return list, nil
}

// Replace makes list the stored collection.
func (s *ContactStore) Replace(ctx context.Context, list []models.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (id, position, name, email, giving_level, total_amount, doc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range list {
		c := &list[i]
		doc, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode contact %s: %w", c.ID, err)
		}

		var level sql.NullString
		var total float64
		if c.DonorInfo != nil {
			level = sql.NullString{String: c.DonorInfo.GivingLevel, Valid: c.DonorInfo.GivingLevel != ""}
			total = c.DonorInfo.TotalAmount
		}

		if _, err := stmt.ExecContext(ctx, c.ID, i, c.FullName(), nullString(c.Email), level, total, string(doc)); err != nil {
			return fmt.Errorf("failed to insert contact %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}

	s.logger.Debug("contacts saved", zap.Int("count", len(list)))
	return nil
}

// Count returns the number of stored contacts.
func (s *ContactStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
