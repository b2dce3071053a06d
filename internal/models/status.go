package models

// StatusMinutes holds whole minutes per trip status.
type StatusMinutes struct {
	Trip    int64 `json:"TRIP"`
	Idle    int64 `json:"IDLE"`
	Stopped int64 `json:"STOPPED"`
}

// StatusSummary is the per-vehicle, per-date time accounting. It is built
// per request and never stored.
type StatusSummary struct {
	Date    string         `json:"date"`
	Trips   []TripInterval `json:"trips"`
	Summary StatusMinutes  `json:"summary"`
}
