package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type TournamentServicer interface {
	GetAll() ([]*models.Tournament, error)
	GetLatest() (*models.Tournament, error)
	Record(tournament *models.Tournament) error
}

type TournamentServiceConfig struct {
	DB *sqlz.DB
}

type TournamentService struct {
	db *sqlz.DB
}

func NewTournamentService(config TournamentServiceConfig) TournamentService {
	return TournamentService{
		db: config.DB,
	}
}

func (s TournamentService) Record(tournament *models.Tournament) error {
	if tournament.PlayedAt.IsZero() {
		tournament.PlayedAt = time.Now().UTC()
	}

	sql := `
INSERT INTO tournaments (
   winner_id
   , winner_country
   , played_at
) VALUES (?, ?, ?)
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, tournament.WinnerID, tournament.WinnerCountry, tournament.PlayedAt)
	if err != nil {
		return fmt.Errorf("error recording tournament won by %s: %w", tournament.WinnerCountry, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		tournament.ID = uint(id)
	}

	return nil
}

func (s TournamentService) GetAll() ([]*models.Tournament, error) {
	var (
		err error
	)

	result := []*models.Tournament{}

	sql := `
SELECT
   t.id
   , t.winner_id
   , t.winner_country
   , t.played_at
FROM tournaments AS t
ORDER BY t.played_at DESC, t.id DESC
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil && !sqlz.IsNotFound(err) {
		return result, fmt.Errorf("error querying for tournaments: %w", err)
	}

	return result, nil
}

// GetLatest returns nil without an error when no tournament was recorded.
func (s TournamentService) GetLatest() (*models.Tournament, error) {
	var (
		err         error
		tournaments []*models.Tournament
	)

	if tournaments, err = s.GetAll(); err != nil {
		return nil, err
	}

	if len(tournaments) == 0 {
		return nil, nil
	}

	return tournaments[0], nil
}
