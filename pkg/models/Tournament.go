package models

import "time"

type Tournament struct {
	ID            uint      `db:"id"`
	WinnerID      uint      `db:"winner_id"`
	WinnerCountry string    `db:"winner_country"`
	PlayedAt      time.Time `db:"played_at"`
}

type TeamStats struct {
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsScored   int
	GoalsAgainst  int
}

type TopScorer struct {
	Team   string `db:"team"`
	Player string `db:"player"`
	Goals  int    `db:"goals"`
}
