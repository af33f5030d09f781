package models

import "fmt"

var (
	ErrTeamNotFound         = fmt.Errorf("team not found")
	ErrMatchNotFound        = fmt.Errorf("match not found")
	ErrMatchAlreadyPlayed   = fmt.Errorf("match already played")
	ErrNotEnoughTeams       = fmt.Errorf("at least 8 teams are needed to start a tournament")
	ErrTournamentInProgress = fmt.Errorf("a tournament is already in progress")
	ErrInvalidTeam          = fmt.Errorf("invalid team registration")
	ErrRepAlreadyRegistered = fmt.Errorf("a team with this representative email already exists")
)
