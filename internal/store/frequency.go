package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ppiankov/wordbias/internal/model"
)

// Speakers lists speakers that have at least one tokenized speech and an
// exact name match in member_bias. One row per speaker name. Before the
// tokenizer has added the tokens column there are none.
func (s *Store) Speakers(ctx context.Context) ([]model.Speaker, error) {
	tokenized, err := s.hasColumn(ctx, "speeches", tokensColumn)
	if err != nil || !tokenized {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.`+colSpeaker+`, COALESCE(MIN(s.`+colMemberID+`), ''), COALESCE(MIN(m.party), '')
		FROM speeches s
		JOIN member_bias m ON s.`+colSpeaker+` = m.name
		WHERE s.`+colTokens+` IS NOT NULL
		GROUP BY s.`+colSpeaker+`
		ORDER BY s.`+colSpeaker)
	if err != nil {
		return nil, fmt.Errorf("query speakers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Speaker
	for rows.Next() {
		var sp model.Speaker
		if err := rows.Scan(&sp.Name, &sp.MemberID, &sp.Party); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// SpeakerTokenBlobs returns the non-NULL token blobs of a speaker's speeches.
// limit <= 0 means all speeches.
func (s *Store) SpeakerTokenBlobs(ctx context.Context, speaker string, limit int) ([]string, error) {
	query := `SELECT ` + colTokens + ` FROM speeches WHERE ` + colSpeaker + ` = ? AND ` + colTokens + ` IS NOT NULL ORDER BY id`
	args := []any{speaker}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query token blobs for %q: %w", speaker, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan token blob: %w", err)
		}
		out = append(out, blob)
	}
	return out, rows.Err()
}

// ReplaceFrequencies deletes every fact for the speaker and inserts facts,
// all in one transaction: a failure leaves the previous rows untouched.
func (s *Store) ReplaceFrequencies(ctx context.Context, speaker string, facts []model.FrequencyFact) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM member_word_frequency WHERE speaker = ?`, speaker); err != nil {
			return fmt.Errorf("delete facts for %q: %w", speaker, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO member_word_frequency (member_id, speaker, party, word, tag, count)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare fact insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, f := range facts {
			if f.Speaker != speaker {
				return fmt.Errorf("fact for %q in replacement of %q", f.Speaker, speaker)
			}
			if _, err := stmt.ExecContext(ctx, nullable(f.MemberID), f.Speaker, nullable(f.Party), f.Word, string(f.Tag), f.Count); err != nil {
				return fmt.Errorf("insert fact %s/%s: %w", f.Word, f.Tag, err)
			}
		}
		return nil
	})
}

// Frequencies loads the whole fact table ordered by speaker, word, tag
func (s *Store) Frequencies(ctx context.Context) ([]model.FrequencyFact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(member_id, ''), speaker, COALESCE(party, ''), word, tag, count
		FROM member_word_frequency
		ORDER BY speaker, word, tag`)
	if err != nil {
		return nil, fmt.Errorf("query frequencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.FrequencyFact
	for rows.Next() {
		var (
			f   model.FrequencyFact
			tag string
		)
		if err := rows.Scan(&f.MemberID, &f.Speaker, &f.Party, &f.Word, &tag, &f.Count); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		f.Tag = model.Tag(tag)
		out = append(out, f)
	}
	return out, rows.Err()
}

// TopWords returns a speaker's n most frequent (word, tag) rows
func (s *Store) TopWords(ctx context.Context, speaker string, n int) ([]model.WordCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, tag, count
		FROM member_word_frequency
		WHERE speaker = ?
		ORDER BY count DESC, word, tag
		LIMIT ?`, speaker, n)
	if err != nil {
		return nil, fmt.Errorf("query top words for %q: %w", speaker, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.WordCount
	for rows.Next() {
		var (
			wc  model.WordCount
			tag string
		)
		if err := rows.Scan(&wc.Word, &tag, &wc.Count); err != nil {
			return nil, fmt.Errorf("scan top word: %w", err)
		}
		wc.Tag = model.Tag(tag)
		out = append(out, wc)
	}
	return out, rows.Err()
}
