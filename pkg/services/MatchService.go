package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type MatchServicer interface {
	Count(playedOnly bool) (int, error)
	Create(match *models.Match) error
	DeleteAll() error
	GetAll() ([]*models.Match, error)
	GetByID(matchID uint) (*models.Match, error)
	GetPlayed() ([]*models.Match, error)
	GetTeamStats(teamID uint) (models.TeamStats, error)
	GetTopScorers(limit int) ([]models.TopScorer, error)
	GetUnplayed() ([]*models.Match, error)
	SaveResult(match *models.Match) error
}

type MatchServiceConfig struct {
	DB *sqlz.DB
}

type MatchService struct {
	db *sqlz.DB
}

func NewMatchService(config MatchServiceConfig) MatchService {
	return MatchService{
		db: config.DB,
	}
}

const matchColumns = `
   m.id
   , m.created_at
   , m.updated_at
   , m.deleted_at
   , m.stage
   , m.team1_id
   , m.team2_id
   , m.team1_country
   , m.team2_country
   , m.score1
   , m.score2
   , m.played
   , m.winner_id
   , m.commentary
   , m.played_at
`

func (s MatchService) Create(match *models.Match) error {
	sql := `
INSERT INTO matches (
   stage
   , team1_id
   , team2_id
   , team1_country
   , team2_country
) VALUES (?, ?, ?, ?, ?)
`

	params := []any{match.Stage, match.Team1ID, match.Team2ID, match.Team1Country, match.Team2Country}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, params...)
	if err != nil {
		return fmt.Errorf("error inserting %s match %s vs %s: %w", match.Stage, match.Team1Country, match.Team2Country, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting id for new match: %w", err)
	}

	match.ID = uint(id)
	return nil
}

func (s MatchService) DeleteAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, "DELETE FROM scorers"); err != nil {
		return fmt.Errorf("error deleting scorers: %w", err)
	}

	if _, err := s.db.Exec(ctx, "DELETE FROM matches"); err != nil {
		return fmt.Errorf("error deleting matches: %w", err)
	}

	return nil
}

func (s MatchService) GetAll() ([]*models.Match, error) {
	return s.query("")
}

func (s MatchService) GetPlayed() ([]*models.Match, error) {
	return s.query("AND m.played = 1")
}

func (s MatchService) GetUnplayed() ([]*models.Match, error) {
	return s.query("AND m.played = 0")
}

func (s MatchService) query(filter string) ([]*models.Match, error) {
	var (
		err error
	)

	result := []*models.Match{}

	sql := `
SELECT` + matchColumns + `
FROM matches AS m
WHERE 1=1
   AND m.deleted_at IS NULL
   ` + filter + `
ORDER BY m.created_at, m.id
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for matches: %w", err)
	}

	return result, nil
}

func (s MatchService) Count(playedOnly bool) (int, error) {
	var (
		err   error
		count int
	)

	sql := "SELECT COUNT(*) FROM matches WHERE deleted_at IS NULL"
	if playedOnly {
		sql += " AND played = 1"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &count, sql); err != nil {
		return 0, fmt.Errorf("error counting matches: %w", err)
	}

	return count, nil
}

func (s MatchService) GetByID(matchID uint) (*models.Match, error) {
	var (
		err error
	)

	result := &models.Match{}

	sql := `
SELECT` + matchColumns + `
FROM matches AS m
WHERE 1=1
   AND m.deleted_at IS NULL
   AND m.id=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, matchID); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("error querying for match %d: %w", matchID, models.ErrMatchNotFound)
		}

		return nil, fmt.Errorf("error querying for match %d: %w", matchID, err)
	}

	sql = `
SELECT
   s.id
   , s.match_id
   , s.team_id
   , s.team_country
   , s.player
   , s.minute
   , s.highlight
FROM scorers AS s
WHERE 1=1
   AND s.match_id=?
ORDER BY s.minute, s.id
`

	ctx, cancel = context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result.Scorers = []models.Scorer{}

	if err = s.db.Query(ctx, &result.Scorers, sql, matchID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for scorers of match %d: %w", matchID, err)
	}

	return result, nil
}

/*
SaveResult stores the score, winner, commentary and scorers of a played
match. Scorers already stored for the match are replaced.
*/
func (s MatchService) SaveResult(match *models.Match) error {
	var (
		err error
	)

	playedAt := time.Now().UTC()
	if match.PlayedAt != nil {
		playedAt = *match.PlayedAt
	}

	sql := `
UPDATE matches SET
   score1=?
   , score2=?
   , played=1
   , winner_id=?
   , commentary=?
   , played_at=?
   , updated_at=CURRENT_TIMESTAMP
WHERE id=?
`

	params := []any{match.Score1, match.Score2, match.WinnerID, match.Commentary, playedAt, match.ID}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving result for match %d: %w", match.ID, err)
	}

	if _, err = s.db.Exec(ctx, "DELETE FROM scorers WHERE match_id=?", match.ID); err != nil {
		return fmt.Errorf("error clearing scorers for match %d: %w", match.ID, err)
	}

	sql = `
INSERT INTO scorers (
   match_id
   , team_id
   , team_country
   , player
   , minute
   , highlight
) VALUES (?, ?, ?, ?, ?, ?)
`

	for i := range match.Scorers {
		sc := &match.Scorers[i]
		sc.MatchID = match.ID

		if _, err = s.db.Exec(ctx, sql, sc.MatchID, sc.TeamID, sc.TeamCountry, sc.Player, sc.Minute, sc.Highlight); err != nil {
			return fmt.Errorf("error inserting scorer %s for match %d: %w", sc.Player, match.ID, err)
		}
	}

	match.Played = true
	match.PlayedAt = &playedAt
	return nil
}

func (s MatchService) GetTeamStats(teamID uint) (models.TeamStats, error) {
	var (
		err     error
		matches []*models.Match
	)

	result := models.TeamStats{}

	sql := `
SELECT` + matchColumns + `
FROM matches AS m
WHERE 1=1
   AND m.deleted_at IS NULL
   AND m.played = 1
   AND (m.team1_id=? OR m.team2_id=?)
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &matches, sql, teamID, teamID); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for matches of team %d: %w", teamID, err)
	}

	for _, m := range matches {
		scored, against := m.Score1, m.Score2
		if m.Team2ID == teamID {
			scored, against = m.Score2, m.Score1
		}

		result.MatchesPlayed++
		result.GoalsScored += scored
		result.GoalsAgainst += against

		switch {
		case scored > against:
			result.Wins++
		case scored < against:
			result.Losses++
		default:
			result.Draws++
		}
	}

	return result, nil
}

func (s MatchService) GetTopScorers(limit int) ([]models.TopScorer, error) {
	var (
		err error
	)

	result := []models.TopScorer{}

	sql := `
SELECT
   s.team_country AS team
   , s.player
   , COUNT(*) AS goals
FROM scorers AS s
   INNER JOIN matches AS m ON m.id=s.match_id
WHERE 1=1
   AND m.deleted_at IS NULL
   AND m.played = 1
GROUP BY s.team_country, s.player
ORDER BY goals DESC, s.player
LIMIT ?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, limit); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for top scorers: %w", err)
	}

	return result, nil
}
