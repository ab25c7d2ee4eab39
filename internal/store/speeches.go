package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ppiankov/wordbias/internal/model"
)

// TokenUpdate is a serialized token blob destined for one speech row
type TokenUpdate struct {
	ID     int64
	Tokens string
}

// InsertSpeech appends a speech row and returns its id.
// Empty segments are stored as NULL.
func (s *Store) InsertSpeech(ctx context.Context, rec model.SpeechRecord) (int64, error) {
	args := []any{rec.Speaker, nullable(rec.MemberID)}
	for _, seg := range rec.Segments {
		args = append(args, nullable(seg))
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO speeches (`+colSpeaker+`, `+colMemberID+`, `+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return 0, fmt.Errorf("insert speech: %w", err)
	}
	return res.LastInsertId()
}

// NextSpeeches reads up to limit speeches with id > afterID in id order.
// With pendingOnly set, rows that already carry a token blob are skipped.
// The tokens column must exist.
func (s *Store) NextSpeeches(ctx context.Context, afterID int64, limit int, pendingOnly bool) ([]model.SpeechRecord, error) {
	query := `
		SELECT id, ` + colSpeaker + `, ` + colMemberID + `, ` + contentColumns + `, ` + colTokens + `
		FROM speeches
		WHERE id > ?`
	if pendingOnly {
		query += ` AND ` + colTokens + ` IS NULL`
	}
	query += ` ORDER BY id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query speeches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SpeechRecord
	for rows.Next() {
		var (
			rec      model.SpeechRecord
			speaker  sql.NullString
			memberID sql.NullString
			segments [model.SegmentCount]sql.NullString
			tokens   sql.NullString
		)
		dest := []any{&rec.ID, &speaker, &memberID}
		for i := range segments {
			dest = append(dest, &segments[i])
		}
		dest = append(dest, &tokens)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan speech: %w", err)
		}

		rec.Speaker = speaker.String
		rec.MemberID = memberID.String
		for i, seg := range segments {
			rec.Segments[i] = seg.String
		}
		if tokens.Valid {
			blob := tokens.String
			rec.Tokens = &blob
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate speeches: %w", err)
	}
	return out, nil
}

// UpdateTokens writes token blobs for a batch of speeches in one transaction
func (s *Store) UpdateTokens(ctx context.Context, updates []TokenUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE speeches SET `+colTokens+` = ? WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("prepare token update: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, u := range updates {
			if _, err := stmt.ExecContext(ctx, u.Tokens, u.ID); err != nil {
				return fmt.Errorf("update tokens for speech %d: %w", u.ID, err)
			}
		}
		return nil
	})
}

// SpeechTokens returns the stored token blob of one speech (nil when NULL)
func (s *Store) SpeechTokens(ctx context.Context, id int64) (*string, error) {
	var tokens sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT `+colTokens+` FROM speeches WHERE id = ?`, id).Scan(&tokens)
	if err != nil {
		return nil, fmt.Errorf("get tokens for speech %d: %w", id, err)
	}
	if !tokens.Valid {
		return nil, nil
	}
	return &tokens.String, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
