package entity

// Move is the agent's answer for one board.
type Move struct {
	Move          int       `json:"move"`
	Value         float64   `json:"value"`
	Probabilities []float64 `json:"probabilities"`
}
