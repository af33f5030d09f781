package models

import "time"

type MatchSummary struct {
	ID         uint
	Stage      string
	Team1      string
	Team2      string
	Score1     int
	Score2     int
	Played     bool
	Winner     string
	PlayedAt   *time.Time
	Commentary string
}

type ScorerLine struct {
	Minute    int
	Player    string
	Team      string
	Highlight *Highlight
}

type Highlight struct {
	ThumbnailURL string
	FullURL      string
}

type TeamRow struct {
	ID      uint
	Country string
	Manager string
	Rating  float64
}

type PlayerRow struct {
	Name      string
	Position  string
	Rating    int
	IsCaptain bool
}
