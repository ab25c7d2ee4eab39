package model

// PoliticalPosition is externally supplied ideal-point data for one member.
// Only Coord1D is used by the estimator.
type PoliticalPosition struct {
	Party   string  `json:"party"`
	Name    string  `json:"name"`
	Coord1D float64 `json:"coord1D"`
	Coord2D float64 `json:"coord2D"`
}
