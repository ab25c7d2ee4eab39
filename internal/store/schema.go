package store

import (
	"fmt"
	"strings"

	"github.com/ppiankov/wordbias/internal/model"
)

// Schema creates the tables the pipeline reads and writes.
// The speeches table belongs to the ingestion step and keeps its column
// names (발언자, 의원ID, 발언내용1..7); creating it here is a no-op for an
// existing database. The token column is not part of it: the tokenizer adds
// it on first run (see EnsureTokensColumn).
const Schema = `
CREATE TABLE IF NOT EXISTS speeches (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    "회의번호"  TEXT,
    "의원ID"   TEXT,
    "발언자"    TEXT,
    "발언내용1" TEXT,
    "발언내용2" TEXT,
    "발언내용3" TEXT,
    "발언내용4" TEXT,
    "발언내용5" TEXT,
    "발언내용6" TEXT,
    "발언내용7" TEXT
);

CREATE INDEX IF NOT EXISTS idx_member_id ON speeches("의원ID");
CREATE INDEX IF NOT EXISTS idx_speaker ON speeches("발언자");

CREATE TABLE IF NOT EXISTS member_bias (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    party   TEXT,
    name    TEXT NOT NULL,
    coord1D REAL,
    coord2D REAL
);

CREATE INDEX IF NOT EXISTS idx_member_bias_name ON member_bias(name);

CREATE TABLE IF NOT EXISTS member_word_frequency (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    member_id TEXT,
    speaker   TEXT NOT NULL,
    party     TEXT,
    word      TEXT NOT NULL,
    tag       TEXT NOT NULL,
    count     INTEGER NOT NULL CHECK(count > 0),
    UNIQUE(speaker, word, tag)
);

CREATE INDEX IF NOT EXISTS idx_frequency_speaker ON member_word_frequency(speaker);
`

// Speech columns as named by the ingestion step
const (
	colSpeaker  = `"발언자"`
	colMemberID = `"의원ID"`
	colTokens   = `"토큰화된_발언"`
)

// tokensColumn is the additive column holding the serialized token blob
const tokensColumn = "토큰화된_발언"

// contentColumns lists the speech text segments in order
var contentColumns = func() string {
	cols := make([]string, model.SegmentCount)
	for i := range cols {
		cols[i] = fmt.Sprintf(`"발언내용%d"`, i+1)
	}
	return strings.Join(cols, ", ")
}()

// dsnPragmas mirrors the pragmas used for every connection
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
