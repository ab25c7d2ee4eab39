package model

import "strings"

// SegmentCount is the number of free-text segments a speech row carries
const SegmentCount = 7

// SpeechRecord is a single floor speech as stored by the ingestion step
type SpeechRecord struct {
	ID       int64                `json:"id"`
	Speaker  string               `json:"speaker"`             // Speaker display name (join key against positions)
	MemberID string               `json:"member_id,omitempty"` // Speaker identifier from the minutes
	Segments [SegmentCount]string `json:"segments"`            // Content segments in fixed order; empty when NULL
	Tokens   *string              `json:"tokens,omitempty"`    // Serialized token blob, nil until tokenized
}

// Text joins all segments into the full utterance.
// Empty segments still contribute a separator so segment order is preserved.
func (r SpeechRecord) Text() string {
	return strings.Join(r.Segments[:], " ")
}

// IsBlank reports whether every segment is empty or whitespace
func (r SpeechRecord) IsBlank() bool {
	for _, s := range r.Segments {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
