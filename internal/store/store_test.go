package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ppiankov/wordbias/internal/model"
)

// setupStore opens a fresh store in a temp directory
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func speech(speaker string, segments ...string) model.SpeechRecord {
	rec := model.SpeechRecord{Speaker: speaker, MemberID: "M-" + speaker}
	copy(rec.Segments[:], segments)
	return rec
}

func TestEnsureTokensColumn_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.EnsureTokensColumn(ctx); err != nil {
		t.Fatalf("first EnsureTokensColumn: %v", err)
	}
	if err := s.EnsureTokensColumn(ctx); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("second EnsureTokensColumn = %v, want ErrDuplicateColumn", err)
	}
}

func TestNextSpeeches_PendingAndPaging(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	if err := s.EnsureTokensColumn(ctx); err != nil {
		t.Fatalf("EnsureTokensColumn: %v", err)
	}

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := s.InsertSpeech(ctx, speech("김철수", "발언", "", "계속"))
		if err != nil {
			t.Fatalf("InsertSpeech: %v", err)
		}
		ids = append(ids, id)
	}

	if err := s.UpdateTokens(ctx, []TokenUpdate{{ID: ids[1], Tokens: "[]"}}); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}

	first, err := s.NextSpeeches(ctx, 0, 2, true)
	if err != nil {
		t.Fatalf("NextSpeeches: %v", err)
	}
	if len(first) != 2 || first[0].ID != ids[0] || first[1].ID != ids[2] {
		t.Fatalf("unexpected first page: %+v", first)
	}
	if first[0].Segments[1] != "" || first[0].Segments[2] != "계속" {
		t.Errorf("NULL segment should scan as empty, got %q", first[0].Segments)
	}
	if first[0].Tokens != nil {
		t.Error("pending speech should have nil tokens")
	}

	rest, err := s.NextSpeeches(ctx, first[1].ID, 10, true)
	if err != nil {
		t.Fatalf("NextSpeeches: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("expected 2 remaining pending speeches, got %d", len(rest))
	}

	all, err := s.NextSpeeches(ctx, 0, 10, false)
	if err != nil {
		t.Fatalf("NextSpeeches: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 speeches without pending filter, got %d", len(all))
	}
	if all[1].Tokens == nil || *all[1].Tokens != "[]" {
		t.Errorf("expected stored blob on speech %d", ids[1])
	}
}

func TestSpeakers_RequiresPositionAndTokens(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	if err := s.EnsureTokensColumn(ctx); err != nil {
		t.Fatalf("EnsureTokensColumn: %v", err)
	}

	a, _ := s.InsertSpeech(ctx, speech("김철수", "a"))
	b, _ := s.InsertSpeech(ctx, speech("이영희", "b"))
	_, _ = s.InsertSpeech(ctx, speech("박민수", "c")) // has a position but no tokens
	d, _ := s.InsertSpeech(ctx, speech("무소속", "d")) // tokens but no position

	if err := s.UpdateTokens(ctx, []TokenUpdate{{ID: a, Tokens: "[]"}, {ID: b, Tokens: "[]"}, {ID: d, Tokens: "[]"}}); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}
	err := s.ReplacePositions(ctx, []model.PoliticalPosition{
		{Party: "A당", Name: "김철수", Coord1D: -0.5},
		{Party: "B당", Name: "이영희", Coord1D: 0.4},
		{Party: "B당", Name: "박민수", Coord1D: 0.1},
	})
	if err != nil {
		t.Fatalf("ReplacePositions: %v", err)
	}

	speakers, err := s.Speakers(ctx)
	if err != nil {
		t.Fatalf("Speakers: %v", err)
	}
	if len(speakers) != 2 {
		t.Fatalf("expected 2 speakers, got %+v", speakers)
	}
	if speakers[0].Name != "김철수" || speakers[0].Party != "A당" || speakers[0].MemberID != "M-김철수" {
		t.Errorf("unexpected speaker: %+v", speakers[0])
	}
}

func TestReplaceFrequencies_ReplacesRows(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := []model.FrequencyFact{
		{Speaker: "김철수", Word: "전쟁", Tag: model.TagCommonNoun, Count: 3},
		{Speaker: "김철수", Word: "평화", Tag: model.TagCommonNoun, Count: 1},
	}
	if err := s.ReplaceFrequencies(ctx, "김철수", first); err != nil {
		t.Fatalf("ReplaceFrequencies: %v", err)
	}
	second := []model.FrequencyFact{
		{Speaker: "김철수", Word: "평화", Tag: model.TagCommonNoun, Count: 5},
	}
	if err := s.ReplaceFrequencies(ctx, "김철수", second); err != nil {
		t.Fatalf("ReplaceFrequencies: %v", err)
	}

	facts, err := s.Frequencies(ctx)
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	if len(facts) != 1 || facts[0].Word != "평화" || facts[0].Count != 5 {
		t.Errorf("expected single replaced fact, got %+v", facts)
	}
}

func TestReplaceFrequencies_RollbackOnFailure(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	original := []model.FrequencyFact{{Speaker: "김철수", Word: "전쟁", Tag: model.TagCommonNoun, Count: 2}}
	if err := s.ReplaceFrequencies(ctx, "김철수", original); err != nil {
		t.Fatalf("ReplaceFrequencies: %v", err)
	}

	// Duplicate (word, tag) violates the unique key after the delete ran
	bad := []model.FrequencyFact{
		{Speaker: "김철수", Word: "평화", Tag: model.TagCommonNoun, Count: 1},
		{Speaker: "김철수", Word: "평화", Tag: model.TagCommonNoun, Count: 1},
	}
	if err := s.ReplaceFrequencies(ctx, "김철수", bad); err == nil {
		t.Fatal("expected unique constraint failure")
	}

	facts, err := s.Frequencies(ctx)
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}
	if len(facts) != 1 || facts[0].Word != "전쟁" {
		t.Errorf("previous facts should survive a failed replace, got %+v", facts)
	}
}

func TestTopWords_Ordering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	facts := []model.FrequencyFact{
		{Speaker: "김철수", Word: "국민", Tag: model.TagCommonNoun, Count: 7},
		{Speaker: "김철수", Word: "가다", Tag: model.TagVerb, Count: 7},
		{Speaker: "김철수", Word: "예산", Tag: model.TagCommonNoun, Count: 9},
		{Speaker: "김철수", Word: "정부", Tag: model.TagCommonNoun, Count: 1},
	}
	if err := s.ReplaceFrequencies(ctx, "김철수", facts); err != nil {
		t.Fatalf("ReplaceFrequencies: %v", err)
	}

	top, err := s.TopWords(ctx, "김철수", 3)
	if err != nil {
		t.Fatalf("TopWords: %v", err)
	}
	want := []string{"예산", "가다", "국민"}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Word != w {
			t.Errorf("TopWords[%d] = %q, want %q", i, top[i].Word, w)
		}
	}
}

func TestSpeakerTokenBlobs_Limit(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	if err := s.EnsureTokensColumn(ctx); err != nil {
		t.Fatalf("EnsureTokensColumn: %v", err)
	}

	var updates []TokenUpdate
	for i := 0; i < 3; i++ {
		id, _ := s.InsertSpeech(ctx, speech("김철수", "x"))
		updates = append(updates, TokenUpdate{ID: id, Tokens: "[]"})
	}
	_, _ = s.InsertSpeech(ctx, speech("김철수", "untokenized"))
	if err := s.UpdateTokens(ctx, updates); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}

	all, err := s.SpeakerTokenBlobs(ctx, "김철수", 0)
	if err != nil {
		t.Fatalf("SpeakerTokenBlobs: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 blobs, got %d", len(all))
	}

	limited, err := s.SpeakerTokenBlobs(ctx, "김철수", 2)
	if err != nil {
		t.Fatalf("SpeakerTokenBlobs: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 blobs with limit, got %d", len(limited))
	}
}

func TestSpeakers_BeforeTokenizing(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, _ = s.InsertSpeech(ctx, speech("김철수", "a"))

	speakers, err := s.Speakers(ctx)
	if err != nil {
		t.Fatalf("Speakers without tokens column: %v", err)
	}
	if len(speakers) != 0 {
		t.Errorf("expected no speakers, got %+v", speakers)
	}
}

func TestPositions_ReplaceAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_ = s.ReplacePositions(ctx, []model.PoliticalPosition{{Name: "old", Coord1D: 1}})
	err := s.ReplacePositions(ctx, []model.PoliticalPosition{
		{Party: "B당", Name: "이영희", Coord1D: 0.4, Coord2D: -0.1},
		{Party: "A당", Name: "김철수", Coord1D: -0.5},
	})
	if err != nil {
		t.Fatalf("ReplacePositions: %v", err)
	}

	got, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected previous rows to be replaced, got %+v", got)
	}
	if got[0].Name != "김철수" || got[1].Coord2D != -0.1 {
		t.Errorf("unexpected positions: %+v", got)
	}
}

// ingestionSchema is the layout written by the spreadsheet import, including
// a frequency table whose foreign key targets a non-unique column
const ingestionSchema = `
CREATE TABLE speeches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    회의번호 TEXT,
    의원ID TEXT,
    발언자 TEXT,
    발언내용1 TEXT, 발언내용2 TEXT, 발언내용3 TEXT, 발언내용4 TEXT,
    발언내용5 TEXT, 발언내용6 TEXT, 발언내용7 TEXT
);
CREATE INDEX idx_member_id ON speeches(의원ID);
CREATE INDEX idx_speaker ON speeches(발언자);
CREATE TABLE member_bias (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    party TEXT, name TEXT, coord1D REAL, coord2D REAL
);
CREATE TABLE member_word_frequency (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    member_id TEXT, speaker TEXT, party TEXT, word TEXT, tag TEXT, count INTEGER,
    FOREIGN KEY (speaker) REFERENCES member_bias(name)
);
INSERT INTO speeches (회의번호, 의원ID, 발언자, 발언내용1, 발언내용2)
VALUES ('제1차', 'M-1', '김철수', '전쟁은 나쁘다', NULL);
INSERT INTO member_bias (party, name, coord1D, coord2D) VALUES ('A당', '김철수', -0.5, 0.1);
`

func TestOpen_IngestionDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "political_speeches.db")

	raw, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec(ingestionSchema); err != nil {
		t.Fatalf("create ingestion schema: %v", err)
	}
	_ = raw.Close()

	ctx := context.Background()
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open on ingestion database: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.EnsureTokensColumn(ctx); err != nil {
		t.Fatalf("EnsureTokensColumn: %v", err)
	}
	recs, err := s.NextSpeeches(ctx, 0, 10, true)
	if err != nil {
		t.Fatalf("NextSpeeches: %v", err)
	}
	if len(recs) != 1 || recs[0].Speaker != "김철수" || recs[0].MemberID != "M-1" || recs[0].Segments[0] != "전쟁은 나쁘다" {
		t.Fatalf("unexpected speeches: %+v", recs)
	}

	if err := s.UpdateTokens(ctx, []TokenUpdate{{ID: recs[0].ID, Tokens: `[["전쟁","NNG"]]`}}); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}
	speakers, err := s.Speakers(ctx)
	if err != nil || len(speakers) != 1 {
		t.Fatalf("Speakers = %+v, %v", speakers, err)
	}
	facts := []model.FrequencyFact{{MemberID: "M-1", Speaker: "김철수", Party: "A당", Word: "전쟁", Tag: model.TagCommonNoun, Count: 1}}
	if err := s.ReplaceFrequencies(ctx, "김철수", facts); err != nil {
		t.Fatalf("ReplaceFrequencies on ingestion table: %v", err)
	}
}
