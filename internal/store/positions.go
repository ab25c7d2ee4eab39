package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ppiankov/wordbias/internal/model"
)

// ReplacePositions replaces the member_bias reference table
func (s *Store) ReplacePositions(ctx context.Context, positions []model.PoliticalPosition) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM member_bias`); err != nil {
			return fmt.Errorf("clear positions: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO member_bias (party, name, coord1D, coord2D) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare position insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, p := range positions {
			if _, err := stmt.ExecContext(ctx, p.Party, p.Name, p.Coord1D, p.Coord2D); err != nil {
				return fmt.Errorf("insert position %q: %w", p.Name, err)
			}
		}
		return nil
	})
}

// Positions returns all stored positions ordered by name
func (s *Store) Positions(ctx context.Context) ([]model.PoliticalPosition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(party, ''), name, COALESCE(coord1D, 0), COALESCE(coord2D, 0)
		FROM member_bias ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.PoliticalPosition
	for rows.Next() {
		var p model.PoliticalPosition
		if err := rows.Scan(&p.Party, &p.Name, &p.Coord1D, &p.Coord2D); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
