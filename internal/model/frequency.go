package model

// FrequencyFact is the count of one (word, tag) pair across a speaker's speeches
type FrequencyFact struct {
	MemberID string `json:"member_id,omitempty"`
	Speaker  string `json:"speaker"`
	Party    string `json:"party,omitempty"`
	Word     string `json:"word"`
	Tag      Tag    `json:"tag"`
	Count    int    `json:"count"`
}

// WordCount is a row of a speaker's top-N word listing
type WordCount struct {
	Word  string `json:"word"`
	Tag   Tag    `json:"tag"`
	Count int    `json:"count"`
}

// Speaker identifies a member whose frequencies are aggregated
type Speaker struct {
	Name     string
	MemberID string
	Party    string
}
