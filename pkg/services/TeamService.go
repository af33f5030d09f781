package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type TeamServicer interface {
	Create(team *models.Team) error
	Delete(teamID uint) error
	GetAll(orderBy TeamOrder) ([]*models.Team, error)
	GetByID(teamID uint) (*models.Team, error)
	GetByIDs(teamIDs ...uint) (map[uint]*models.Team, error)
	GetFirst(limit int) ([]*models.Team, error)
}

type TeamOrder int

const (
	TeamsByCreated TeamOrder = iota
	TeamsByRating
)

type TeamServiceConfig struct {
	DB *sqlz.DB
}

type TeamService struct {
	db *sqlz.DB
}

func NewTeamService(config TeamServiceConfig) TeamService {
	return TeamService{
		db: config.DB,
	}
}

const teamColumns = `
   t.id
   , t.created_at
   , t.updated_at
   , t.deleted_at
   , t.country
   , t.rep_name
   , t.rep_email
   , t.manager
   , t.rating
`

func (s TeamService) Create(team *models.Team) error {
	var (
		err error
		id  int64
	)

	sql := `
INSERT INTO teams (
   country
   , rep_name
   , rep_email
   , manager
   , rating
) VALUES (?, ?, ?, ?, ?)
`

	params := []any{team.Country, team.RepName, team.RepEmail, team.Manager, team.Rating}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)
	if err != nil {
		return fmt.Errorf("error inserting team %s: %w", team.Country, err)
	}

	if id, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("error getting id for team %s: %w", team.Country, err)
	}

	team.ID = uint(id)

	sql = `
INSERT INTO players (
   team_id
   , name
   , "natural"
   , rating_gk
   , rating_df
   , rating_md
   , rating_at
   , is_captain
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

	for i := range team.Players {
		p := &team.Players[i]
		p.TeamID = team.ID

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		result, err = s.db.Exec(ctx, sql, p.TeamID, p.Name, p.Natural, p.RatingGK, p.RatingDF, p.RatingMD, p.RatingAT, p.IsCaptain)
		if err != nil {
			return fmt.Errorf("error inserting player %s for team %d: %w", p.Name, team.ID, err)
		}

		if id, err = result.LastInsertId(); err == nil {
			p.ID = uint(id)
		}
	}

	return nil
}

func (s TeamService) Delete(teamID uint) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, "DELETE FROM players WHERE team_id=?", teamID); err != nil {
		return fmt.Errorf("error deleting players for team %d: %w", teamID, err)
	}

	result, err := s.db.Exec(ctx, "DELETE FROM teams WHERE id=?", teamID)
	if err != nil {
		return fmt.Errorf("error deleting team %d: %w", teamID, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("error deleting team %d: %w", teamID, models.ErrTeamNotFound)
	}

	return nil
}

func (s TeamService) GetAll(orderBy TeamOrder) ([]*models.Team, error) {
	var (
		err error
	)

	result := []*models.Team{}

	order := "t.created_at, t.id"
	if orderBy == TeamsByRating {
		order = "t.rating DESC, t.id"
	}

	sql := `
SELECT` + teamColumns + `
FROM teams AS t
WHERE 1=1
   AND t.deleted_at IS NULL
ORDER BY ` + order

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for teams: %w", err)
	}

	return result, nil
}

func (s TeamService) GetFirst(limit int) ([]*models.Team, error) {
	var (
		err   error
		teams []*models.Team
	)

	if teams, err = s.GetAll(TeamsByCreated); err != nil {
		return nil, err
	}

	if len(teams) > limit {
		teams = teams[:limit]
	}

	for _, team := range teams {
		if err = s.loadPlayers(team); err != nil {
			return nil, err
		}
	}

	return teams, nil
}

func (s TeamService) GetByID(teamID uint) (*models.Team, error) {
	var (
		err error
	)

	result := &models.Team{}

	sql := `
SELECT` + teamColumns + `
FROM teams AS t
WHERE 1=1
   AND t.deleted_at IS NULL
   AND t.id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, teamID); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("error querying for team %d: %w", teamID, models.ErrTeamNotFound)
		}

		return nil, fmt.Errorf("error querying for team %d: %w", teamID, err)
	}

	if err = s.loadPlayers(result); err != nil {
		return nil, err
	}

	return result, nil
}

/*
GetByIDs loads several teams with their players. Missing IDs are simply
absent from the map.
*/
func (s TeamService) GetByIDs(teamIDs ...uint) (map[uint]*models.Team, error) {
	result := map[uint]*models.Team{}

	for _, id := range teamIDs {
		if _, ok := result[id]; ok {
			continue
		}

		team, err := s.GetByID(id)
		if errors.Is(err, models.ErrTeamNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		result[id] = team
	}

	return result, nil
}

func (s TeamService) loadPlayers(team *models.Team) error {
	sql := `
SELECT
   p.id
   , p.team_id
   , p.name
   , p."natural"
   , p.rating_gk
   , p.rating_df
   , p.rating_md
   , p.rating_at
   , p.is_captain
FROM players AS p
WHERE 1=1
   AND p.team_id=?
ORDER BY p.id
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	team.Players = []models.Player{}

	if err := s.db.Query(ctx, &team.Players, sql, team.ID); err != nil && !sqlz.IsNotFound(err) {
		return fmt.Errorf("error querying for players of team %d: %w", team.ID, err)
	}

	return nil
}
