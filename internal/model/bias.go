package model

// BiasScore is the regression coefficient of one vocabulary word.
// A positive score means heavier weighted use of the word goes with a larger
// first-dimension coordinate; the substantive meaning of that end of the
// scale is whatever the position data encodes.
type BiasScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"bias_score"`
}

// BiasModel summarizes a fitted word-bias regression
type BiasModel struct {
	Observations int         `json:"observations"` // Speakers that survived the position join
	Vocabulary   int         `json:"vocabulary"`   // Words retained by the count threshold
	Intercept    float64     `json:"intercept"`
	RSquared     float64     `json:"r_squared"`
	Scores       []BiasScore `json:"scores"` // Ordered by descending |score|
}
