package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/tournament"
)

type LeagueServicer interface {
	AddTeam() (*models.Team, error)
	Notify() error
	RegisterTeam(registration TeamRegistration) (*models.Team, error)
	RemoveTeam(teamID uint) error
	ReplaceTeam(teamID uint) (*models.Team, error)
	Reset() error
	Seed(count int) ([]*models.Team, error)
	SimulateAll() ([]*models.Match, error)
	SimulateMatch(matchID uint) (*models.Match, error)
	Start() ([]*models.Match, error)
}

type LeagueServiceConfig struct {
	HighlightService    HighlightServicer
	MatchService        MatchServicer
	NotificationService NotificationServicer
	Rand                *rand.Rand
	TeamService         TeamServicer
	TournamentService   TournamentServicer
}

/*
TeamRegistration is a team entered by its representative. Players only need
a name and a natural position; ratings are generated. With Autofill the
squad is generated instead.
*/
type TeamRegistration struct {
	Country      string
	Manager      string
	RepName      string
	RepEmail     string
	Players      []models.Player
	CaptainIndex int
	Autofill     bool
}

/*
LeagueService runs the tournament: registering demo teams, drawing the
bracket, simulating matches and advancing the stages until a champion is
recorded.
*/
type LeagueService struct {
	highlightService    HighlightServicer
	matchService        MatchServicer
	notificationService NotificationServicer
	teamService         TeamServicer
	tournamentService   TournamentServicer

	mu  *sync.Mutex
	rng *rand.Rand
}

func NewLeagueService(config LeagueServiceConfig) LeagueService {
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}

	return LeagueService{
		highlightService:    config.HighlightService,
		matchService:        config.MatchService,
		notificationService: config.NotificationService,
		teamService:         config.TeamService,
		tournamentService:   config.TournamentService,
		mu:                  &sync.Mutex{},
		rng:                 rng,
	}
}

// Seed registers count demo teams.
func (s LeagueService) Seed(count int) ([]*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*models.Team{}

	for range count {
		team, err := s.createDemoTeam()
		if err != nil {
			return result, err
		}

		result = append(result, team)
	}

	slog.Info("seeded demo teams", "count", len(result))
	return result, nil
}

func (s LeagueService) AddTeam() (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createDemoTeam()
}

/*
RegisterTeam validates a registration, rates its squad and stores the team.
A representative email can only register one team.
*/
func (s LeagueService) RegisterTeam(registration TeamRegistration) (*models.Team, error) {
	var (
		err   error
		teams []*models.Team
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = validateRegistration(registration); err != nil {
		return nil, err
	}

	if teams, err = s.teamService.GetAll(TeamsByCreated); err != nil {
		return nil, err
	}

	for _, existing := range teams {
		if strings.EqualFold(existing.RepEmail, registration.RepEmail) {
			return nil, fmt.Errorf("error registering %s: %w", registration.Country, models.ErrRepAlreadyRegistered)
		}
	}

	generator := tournament.NewGenerator(s.rng)
	entries := make([]models.Player, 0, len(registration.Players))

	for _, p := range registration.Players {
		natural, _ := models.ParsePosition(string(p.Natural))
		entries = append(entries, models.Player{Name: strings.TrimSpace(p.Name), Natural: natural})
	}

	if registration.Autofill {
		entries = generator.Autofill()
	}

	players := generator.Squad(entries, registration.CaptainIndex)

	team := &models.Team{
		Country:  registration.Country,
		RepName:  registration.RepName,
		RepEmail: registration.RepEmail,
		Manager:  registration.Manager,
		Players:  players,
		Rating:   tournament.TeamRating(players),
	}

	if err = s.teamService.Create(team); err != nil {
		return nil, err
	}

	slog.Info("team registered", "teamID", team.ID, "country", team.Country, "players", len(players), "rating", team.Rating)
	return team, nil
}

func validateRegistration(registration TeamRegistration) error {
	invalid := func(reason string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(reason, args...), models.ErrInvalidTeam)
	}

	if strings.TrimSpace(registration.Country) == "" {
		return invalid("country is required")
	}

	if strings.TrimSpace(registration.RepEmail) == "" {
		return invalid("representative email is required")
	}

	if registration.Autofill {
		return nil
	}

	if len(registration.Players) == 0 {
		return invalid("players are required unless the squad is autofilled")
	}

	if len(registration.Players) > tournament.SquadSize {
		return invalid("%d players given, at most %d allowed", len(registration.Players), tournament.SquadSize)
	}

	for i, p := range registration.Players {
		if strings.TrimSpace(p.Name) == "" {
			return invalid("player %d has no name", i+1)
		}

		if _, ok := models.ParsePosition(string(p.Natural)); !ok {
			return invalid("player %d has unknown position %q", i+1, p.Natural)
		}
	}

	if registration.CaptainIndex < 0 || registration.CaptainIndex >= len(registration.Players) {
		return invalid("captain %d is not in the squad", registration.CaptainIndex)
	}

	return nil
}

func (s LeagueService) RemoveTeam(teamID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.teamService.Delete(teamID); err != nil {
		return err
	}

	slog.Info("team removed", "teamID", teamID)
	return nil
}

// ReplaceTeam removes a team and registers a fresh demo team in its place.
func (s LeagueService) ReplaceTeam(teamID uint) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.teamService.Delete(teamID); err != nil {
		return nil, err
	}

	team, err := s.createDemoTeam()
	if err != nil {
		return nil, err
	}

	slog.Info("team replaced", "removedTeamID", teamID, "country", team.Country)
	return team, nil
}

/*
Start draws the quarterfinals from the first eight registered teams. It
refuses while matches from a previous draw still exist.
*/
func (s LeagueService) Start() ([]*models.Match, error) {
	var (
		err     error
		count   int
		teams   []*models.Team
		matches []*models.Match
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if count, err = s.matchService.Count(false); err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, fmt.Errorf("error starting tournament with %d existing matches: %w", count, models.ErrTournamentInProgress)
	}

	if teams, err = s.teamService.GetFirst(tournament.BracketSize); err != nil {
		return nil, err
	}

	if matches, err = tournament.MakeBracket(s.rng, teams); err != nil {
		return nil, err
	}

	for _, m := range matches {
		if err = s.matchService.Create(m); err != nil {
			return nil, err
		}
	}

	slog.Info("tournament started", "matches", len(matches))
	return matches, nil
}

/*
SimulateMatch plays one unplayed match, notifies both representatives and
advances the bracket when the stage is complete.
*/
func (s LeagueService) SimulateMatch(matchID uint) (*models.Match, error) {
	var (
		err   error
		match *models.Match
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if match, err = s.matchService.GetByID(matchID); err != nil {
		return nil, err
	}

	if match.Played {
		return nil, fmt.Errorf("error simulating match %d: %w", matchID, models.ErrMatchAlreadyPlayed)
	}

	if err = s.play(match, s.highlightService.Refs(), true); err != nil {
		return nil, err
	}

	if err = s.advance(); err != nil {
		return match, err
	}

	return match, nil
}

/*
SimulateAll plays every unplayed match, stage after stage, until the final
has been played or no match is left.
*/
func (s LeagueService) SimulateAll() ([]*models.Match, error) {
	var (
		err      error
		unplayed []*models.Match
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*models.Match{}
	highlights := s.highlightService.Refs()

	for {
		if unplayed, err = s.matchService.GetUnplayed(); err != nil {
			return result, err
		}

		if len(unplayed) == 0 {
			return result, nil
		}

		for _, m := range unplayed {
			if err = s.play(m, highlights, false); err != nil {
				return result, err
			}

			result = append(result, m)
		}

		if err = s.advance(); err != nil {
			return result, err
		}
	}
}

// Reset clears every match so a new draw can start.
func (s LeagueService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.matchService.DeleteAll(); err != nil {
		return err
	}

	slog.Info("tournament reset")
	return nil
}

/*
Notify sends the summary of the latest recorded tournament to every
representative. Without a recorded tournament the winner is "TBD".
*/
func (s LeagueService) Notify() error {
	var (
		err     error
		latest  *models.Tournament
		matches []*models.Match
		teams   []*models.Team
		summary = &models.Tournament{WinnerCountry: "TBD", PlayedAt: time.Now().UTC()}
	)

	if latest, err = s.tournamentService.GetLatest(); err != nil {
		return err
	}

	if latest != nil {
		summary = latest
	}

	if matches, err = s.loadMatchesWithScorers(); err != nil {
		return err
	}

	if teams, err = s.teamService.GetAll(TeamsByCreated); err != nil {
		return err
	}

	return s.notificationService.NotifyTournamentResult(summary, matches, teams)
}

func (s LeagueService) createDemoTeam() (*models.Team, error) {
	team := tournament.NewGenerator(s.rng).DemoTeam("")

	if err := s.teamService.Create(&team); err != nil {
		return nil, err
	}

	slog.Info("team registered", "teamID", team.ID, "country", team.Country, "rating", team.Rating)
	return &team, nil
}

// play simulates one match drawing scorer clips from highlights.
func (s LeagueService) play(match *models.Match, highlights []string, notify bool) error {
	var (
		err   error
		teams map[uint]*models.Team
	)

	if teams, err = s.teamService.GetByIDs(match.Team1ID, match.Team2ID); err != nil {
		return err
	}

	team1, team2 := teamOrPlaceholder(teams, match.Team1ID, match.Team1Country), teamOrPlaceholder(teams, match.Team2ID, match.Team2Country)

	simulator := tournament.NewSimulator(s.rng, highlights)
	simulator.Simulate(team1, team2).Apply(match)

	if err = s.matchService.SaveResult(match); err != nil {
		return err
	}

	slog.Info("match simulated",
		"matchID", match.ID,
		"stage", match.Stage,
		"score", fmt.Sprintf("%s %d - %d %s", match.Team1Country, match.Score1, match.Score2, match.Team2Country),
	)

	if notify {
		if err = s.notificationService.NotifyMatchResult(match, team1, team2); err != nil {
			slog.Error("error notifying match result", "matchID", match.ID, "error", err)
		}
	}

	return nil
}

/*
advance creates the next stage once the latest one is fully played, and
records the champion after the final.
*/
func (s LeagueService) advance() error {
	var (
		err     error
		matches []*models.Match
	)

	if matches, err = s.matchService.GetAll(); err != nil {
		return err
	}

	if champion, ok := tournament.Champion(matches); ok {
		return s.recordChampion(champion)
	}

	stages := tournament.ByStage(matches)

	for _, stage := range []models.Stage{models.Semifinal, models.Quarterfinal} {
		current, ok := stages[stage]
		if !ok {
			continue
		}

		if _, started := stages[stage.Next()]; started {
			return nil
		}

		for _, m := range tournament.NextRound(current) {
			if err = s.matchService.Create(m); err != nil {
				return err
			}

			slog.Info("next round drawn", "stage", m.Stage, "team1", m.Team1Country, "team2", m.Team2Country)
		}

		return nil
	}

	return nil
}

func (s LeagueService) recordChampion(final *models.Match) error {
	var (
		err     error
		matches []*models.Match
		teams   []*models.Team
	)

	t := &models.Tournament{
		WinnerID:      final.WinnerID,
		WinnerCountry: final.WinnerCountry(),
		PlayedAt:      time.Now().UTC(),
	}

	if err = s.tournamentService.Record(t); err != nil {
		return err
	}

	slog.Info("tournament completed", "winner", t.WinnerCountry)

	if matches, err = s.loadMatchesWithScorers(); err != nil {
		return err
	}

	if teams, err = s.teamService.GetAll(TeamsByCreated); err != nil {
		return err
	}

	if err = s.notificationService.NotifyTournamentResult(t, matches, teams); err != nil {
		slog.Error("error notifying tournament result", "winner", t.WinnerCountry, "error", err)
	}

	return nil
}

func (s LeagueService) loadMatchesWithScorers() ([]*models.Match, error) {
	matches, err := s.matchService.GetAll()
	if err != nil {
		return nil, err
	}

	result := make([]*models.Match, 0, len(matches))

	for _, m := range matches {
		full, err := s.matchService.GetByID(m.ID)
		if errors.Is(err, models.ErrMatchNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		result = append(result, full)
	}

	return result, nil
}

/*
teamOrPlaceholder keeps a match playable after one of its teams was removed
from the league.
*/
func teamOrPlaceholder(teams map[uint]*models.Team, id uint, country string) *models.Team {
	if team, ok := teams[id]; ok {
		return team
	}

	placeholder := &models.Team{Country: country, Rating: 50}
	placeholder.ID = id
	return placeholder
}
