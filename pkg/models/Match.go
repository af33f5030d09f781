package models

import "time"

type Stage string

const (
	Quarterfinal Stage = "Quarterfinal"
	Semifinal    Stage = "Semifinal"
	Final        Stage = "Final"
)

// Next returns the stage after s, or "" after the final.
func (s Stage) Next() Stage {
	switch s {
	case Quarterfinal:
		return Semifinal
	case Semifinal:
		return Final
	}

	return ""
}

type Match struct {
	BaseModel

	Stage        Stage      `db:"stage"`
	Team1ID      uint       `db:"team1_id"`
	Team2ID      uint       `db:"team2_id"`
	Team1Country string     `db:"team1_country"`
	Team2Country string     `db:"team2_country"`
	Score1       int        `db:"score1"`
	Score2       int        `db:"score2"`
	Played       bool       `db:"played"`
	WinnerID     uint       `db:"winner_id"`
	Commentary   string     `db:"commentary"`
	PlayedAt     *time.Time `db:"played_at"`
	Scorers      []Scorer
}

func (m Match) WinnerCountry() string {
	switch m.WinnerID {
	case 0:
		return ""
	case m.Team1ID:
		return m.Team1Country
	default:
		return m.Team2Country
	}
}

type Scorer struct {
	ID          uint   `db:"id"`
	MatchID     uint   `db:"match_id"`
	TeamID      uint   `db:"team_id"`
	TeamCountry string `db:"team_country"`
	Player      string `db:"player"`
	Minute      int    `db:"minute"`
	Highlight   string `db:"highlight"`
}
