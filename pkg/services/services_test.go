package services

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/adampresley/adamgokit/email"
	"github.com/adampresley/adamgokit/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adampresley/anleague/pkg/database/databasetest"
	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/tournament"
)

type fakeMailer struct {
	sent []email.Mail
	err  error
}

func (m *fakeMailer) Send(mail email.Mail) error {
	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, mail)
	return nil
}

type fakeHighlightStore struct {
	objects []s3.Object
	err     error
}

func (s fakeHighlightStore) List(prefix string) ([]s3.Object, error) {
	return s.objects, s.err
}

func (s fakeHighlightStore) URL(key string) (string, error) {
	return "https://bucket.test/" + key + "?signed", nil
}

type league struct {
	teams       TeamService
	matches     MatchService
	tournaments TournamentService
	mailer      *fakeMailer
	service     LeagueService
}

type countingHighlights struct {
	refs  int
	inner HighlightServicer
}

func (c *countingHighlights) Refs() []string {
	c.refs++
	return c.inner.Refs()
}

func (c *countingHighlights) Resolve(ref string) (Highlight, error) {
	return c.inner.Resolve(ref)
}

func newLeague(t *testing.T) league {
	t.Helper()
	return newLeagueWithHighlights(t, NewHighlightService(HighlightServiceConfig{Folder: "highlights"}))
}

func newLeagueWithHighlights(t *testing.T, highlights HighlightServicer) league {
	t.Helper()

	db := databasetest.New(t)
	l := league{
		teams:       NewTeamService(TeamServiceConfig{DB: db}),
		matches:     NewMatchService(MatchServiceConfig{DB: db}),
		tournaments: NewTournamentService(TournamentServiceConfig{DB: db}),
		mailer:      &fakeMailer{},
	}

	l.service = NewLeagueService(LeagueServiceConfig{
		HighlightService:    highlights,
		MatchService:        l.matches,
		NotificationService: NewNotificationService(NotificationServiceConfig{FromEmail: "league@example.com", FromName: "League", Mailer: l.mailer}),
		Rand:                rand.New(rand.NewPCG(21, 12)),
		TeamService:         l.teams,
		TournamentService:   l.tournaments,
	})

	return l
}

func TestTeamServiceRoundTrip(t *testing.T) {
	l := newLeague(t)
	team := tournament.NewGenerator(rand.New(rand.NewPCG(1, 2))).DemoTeam("Senegal")

	require.NoError(t, l.teams.Create(&team))
	require.NotZero(t, team.ID)

	got, err := l.teams.GetByID(team.ID)
	require.NoError(t, err)

	assert.Equal(t, "Senegal", got.Country)
	assert.Equal(t, team.Rating, got.Rating)
	require.Len(t, got.Players, tournament.SquadSize)
	assert.Equal(t, team.Players[3].Natural, got.Players[3].Natural)

	captain, ok := got.Captain()
	require.True(t, ok)
	assert.Equal(t, team.Players[0].Name, captain.Name)

	require.NoError(t, l.teams.Delete(team.ID))

	_, err = l.teams.GetByID(team.ID)
	assert.ErrorIs(t, err, models.ErrTeamNotFound)
	assert.ErrorIs(t, l.teams.Delete(team.ID), models.ErrTeamNotFound)
}

func TestTeamsByRating(t *testing.T) {
	l := newLeague(t)

	for i, rating := range []float64{60, 80, 70} {
		team := &models.Team{Country: []string{"Chad", "Mali", "Togo"}[i], Rating: rating}
		require.NoError(t, l.teams.Create(team))
	}

	teams, err := l.teams.GetAll(TeamsByRating)
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, []string{"Mali", "Togo", "Chad"}, []string{teams[0].Country, teams[1].Country, teams[2].Country})
}

func TestStartNeedsEightTeams(t *testing.T) {
	l := newLeague(t)

	_, err := l.service.Seed(7)
	require.NoError(t, err)

	_, err = l.service.Start()
	assert.ErrorIs(t, err, models.ErrNotEnoughTeams)

	_, err = l.service.AddTeam()
	require.NoError(t, err)

	matches, err := l.service.Start()
	require.NoError(t, err)
	assert.Len(t, matches, 4)

	_, err = l.service.Start()
	assert.ErrorIs(t, err, models.ErrTournamentInProgress)
}

func TestSimulateMatchNotifiesAndRefusesReplay(t *testing.T) {
	l := newLeague(t)

	_, err := l.service.Seed(8)
	require.NoError(t, err)

	matches, err := l.service.Start()
	require.NoError(t, err)

	played, err := l.service.SimulateMatch(matches[0].ID)
	require.NoError(t, err)
	assert.True(t, played.Played)
	assert.NotZero(t, played.WinnerID)
	assert.Contains(t, played.Commentary, "Final score:")

	stored, err := l.matches.GetByID(played.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Scorers, stored.Score1+stored.Score2)

	for _, sc := range stored.Scorers {
		assert.Contains(t, FallbackHighlights, sc.Highlight)
	}

	require.Len(t, l.mailer.sent, 1)
	assert.NotEmpty(t, l.mailer.sent[0].To)
	assert.Contains(t, l.mailer.sent[0].Subject, "Match result:")

	_, err = l.service.SimulateMatch(matches[0].ID)
	assert.ErrorIs(t, err, models.ErrMatchAlreadyPlayed)

	_, err = l.service.SimulateMatch(9999)
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestSimulateAllCrownsChampion(t *testing.T) {
	l := newLeague(t)

	_, err := l.service.Seed(8)
	require.NoError(t, err)

	_, err = l.service.Start()
	require.NoError(t, err)

	played, err := l.service.SimulateAll()
	require.NoError(t, err)
	assert.Len(t, played, 7)

	all, err := l.matches.GetAll()
	require.NoError(t, err)

	stages := tournament.ByStage(all)
	assert.Len(t, stages[models.Quarterfinal], 4)
	assert.Len(t, stages[models.Semifinal], 2)
	require.Len(t, stages[models.Final], 1)

	latest, err := l.tournaments.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, stages[models.Final][0].WinnerID, latest.WinnerID)
	assert.Equal(t, stages[models.Final][0].WinnerCountry(), latest.WinnerCountry)

	require.Len(t, l.mailer.sent, 1)
	assert.Equal(t, "Tournament completed: Winner - "+latest.WinnerCountry, l.mailer.sent[0].Subject)
	assert.NotEmpty(t, l.mailer.sent[0].To)

	count, err := l.matches.Count(true)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	scorers, err := l.matches.GetTopScorers(20)
	require.NoError(t, err)

	if len(scorers) > 1 {
		assert.GreaterOrEqual(t, scorers[0].Goals, scorers[len(scorers)-1].Goals)
	}

	stats, err := l.matches.GetTeamStats(latest.WinnerID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MatchesPlayed)

	require.NoError(t, l.service.Reset())

	count, err = l.matches.Count(false)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSimulateAllListsHighlightsOnce(t *testing.T) {
	highlights := &countingHighlights{inner: NewHighlightService(HighlightServiceConfig{Folder: "highlights"})}
	l := newLeagueWithHighlights(t, highlights)

	_, err := l.service.Seed(8)
	require.NoError(t, err)

	_, err = l.service.Start()
	require.NoError(t, err)

	played, err := l.service.SimulateAll()
	require.NoError(t, err)
	require.Len(t, played, 7)

	assert.Equal(t, 1, highlights.refs)
}

func squad(names ...string) []models.Player {
	result := []models.Player{}
	positions := []models.Position{"gk", "DF", "md", "AT"}

	for i, name := range names {
		result = append(result, models.Player{Name: name, Natural: positions[i%len(positions)]})
	}

	return result
}

func TestRegisterTeamRoundTrip(t *testing.T) {
	l := newLeague(t)

	registered, err := l.service.RegisterTeam(TeamRegistration{
		Country:      "Zambia",
		Manager:      "Avram Grant",
		RepName:      "Mary Banda",
		RepEmail:     "mary@zambia.example.com",
		Players:      squad("Kennedy Mweene", "Stoppila Sunzu", "Rainford Kalaba", "Emmanuel Mayuka"),
		CaptainIndex: 2,
	})
	require.NoError(t, err)
	require.NotZero(t, registered.ID)

	got, err := l.teams.GetByID(registered.ID)
	require.NoError(t, err)

	assert.Equal(t, "Zambia", got.Country)
	assert.Equal(t, "Avram Grant", got.Manager)
	assert.Equal(t, "Mary Banda", got.RepName)
	assert.Equal(t, "mary@zambia.example.com", got.RepEmail)
	require.Len(t, got.Players, 4)

	assert.Equal(t, "Kennedy Mweene", got.Players[0].Name)
	assert.Equal(t, models.Goalkeeper, got.Players[0].Natural)
	assert.Equal(t, models.Midfielder, got.Players[2].Natural)

	for _, p := range got.Players {
		assert.GreaterOrEqual(t, p.NaturalRating(), 50)
	}

	captain, ok := got.Captain()
	require.True(t, ok)
	assert.Equal(t, "Rainford Kalaba", captain.Name)

	assert.Equal(t, tournament.TeamRating(got.Players), got.Rating)
	assert.Equal(t, registered.Rating, got.Rating)
}

func TestRegisterTeamAutofill(t *testing.T) {
	l := newLeague(t)

	registered, err := l.service.RegisterTeam(TeamRegistration{
		Country:  "Kenya",
		RepEmail: "rep@kenya.example.com",
		Autofill: true,
	})
	require.NoError(t, err)

	got, err := l.teams.GetByID(registered.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, tournament.SquadSize)

	captain, ok := got.Captain()
	require.True(t, ok)
	assert.Equal(t, got.Players[0].Name, captain.Name)
}

func TestRegisterTeamRejects(t *testing.T) {
	tooMany := make([]string, tournament.SquadSize+1)
	for i := range tooMany {
		tooMany[i] = "Player"
	}

	tests := []struct {
		name         string
		registration TeamRegistration
		expected     error
	}{
		{
			name:         "missing country",
			registration: TeamRegistration{RepEmail: "a@example.com", Autofill: true},
			expected:     models.ErrInvalidTeam,
		},
		{
			name:         "missing rep email",
			registration: TeamRegistration{Country: "Chad", Autofill: true},
			expected:     models.ErrInvalidTeam,
		},
		{
			name:         "no players",
			registration: TeamRegistration{Country: "Chad", RepEmail: "a@example.com"},
			expected:     models.ErrInvalidTeam,
		},
		{
			name:         "too many players",
			registration: TeamRegistration{Country: "Chad", RepEmail: "a@example.com", Players: squad(tooMany...)},
			expected:     models.ErrInvalidTeam,
		},
		{
			name: "unknown position",
			registration: TeamRegistration{Country: "Chad", RepEmail: "a@example.com", Players: []models.Player{
				{Name: "A Player", Natural: "ST"},
			}},
			expected: models.ErrInvalidTeam,
		},
		{
			name:         "captain outside squad",
			registration: TeamRegistration{Country: "Chad", RepEmail: "a@example.com", Players: squad("A", "B"), CaptainIndex: 2},
			expected:     models.ErrInvalidTeam,
		},
		{
			name:         "rep already registered",
			registration: TeamRegistration{Country: "Chad", RepEmail: "TAKEN@example.com", Autofill: true},
			expected:     models.ErrRepAlreadyRegistered,
		},
	}

	l := newLeague(t)

	_, err := l.service.RegisterTeam(TeamRegistration{Country: "Niger", RepEmail: "taken@example.com", Autofill: true})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.service.RegisterTeam(tt.registration)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	teams, err := l.teams.GetAll(TeamsByCreated)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestReplaceTeam(t *testing.T) {
	l := newLeague(t)

	seeded, err := l.service.Seed(2)
	require.NoError(t, err)

	replacement, err := l.service.ReplaceTeam(seeded[0].ID)
	require.NoError(t, err)

	teams, err := l.teams.GetAll(TeamsByCreated)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, seeded[1].ID, teams[0].ID)
	assert.Equal(t, replacement.ID, teams[1].ID)

	_, err = l.service.ReplaceTeam(seeded[0].ID)
	assert.ErrorIs(t, err, models.ErrTeamNotFound)
}

func TestNotifyWithoutTournament(t *testing.T) {
	l := newLeague(t)

	_, err := l.service.Seed(3)
	require.NoError(t, err)

	require.NoError(t, l.service.Notify())
	require.Len(t, l.mailer.sent, 1)
	assert.Equal(t, "Tournament completed: Winner - TBD", l.mailer.sent[0].Subject)
	assert.True(t, l.mailer.sent[0].BodyIsHtml)
}

func TestNotificationWithoutMailerLogs(t *testing.T) {
	service := NewNotificationService(NotificationServiceConfig{})
	team1 := &models.Team{Country: "Benin", RepEmail: "rep@example.com"}
	team2 := &models.Team{Country: "Niger", RepEmail: "rep@example.com"}

	err := service.NotifyMatchResult(&models.Match{Team1Country: "Benin", Team2Country: "Niger"}, team1, team2)
	assert.NoError(t, err)
}

func TestNotificationWrapsMailerError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("boom")}
	service := NewNotificationService(NotificationServiceConfig{Mailer: mailer})

	err := service.NotifyMatchResult(&models.Match{}, &models.Team{RepEmail: "a@example.com"}, nil)
	assert.ErrorContains(t, err, "boom")
}

func TestCollectRecipientsDedupes(t *testing.T) {
	got := collectRecipients([]*models.Team{
		{RepName: "A", RepEmail: "a@example.com"},
		nil,
		{RepName: "B", RepEmail: ""},
		{RepName: "A again", RepEmail: "a@example.com"},
		{RepName: "C", RepEmail: "c@example.com"},
	})

	assert.Equal(t, []email.EmailAddress{
		{Name: "A", Email: "a@example.com"},
		{Name: "C", Email: "c@example.com"},
	}, got)
}

func TestHighlightRefs(t *testing.T) {
	tests := []struct {
		name     string
		store    HighlightObjectStore
		expected []string
	}{
		{name: "no store", store: nil, expected: FallbackHighlights},
		{name: "store error", store: fakeHighlightStore{err: errors.New("down")}, expected: FallbackHighlights},
		{name: "empty store", store: fakeHighlightStore{}, expected: FallbackHighlights},
		{
			name: "only clips",
			store: fakeHighlightStore{objects: []s3.Object{
				{Key: "highlights/original/a.gif"},
				{Key: "highlights/original/readme.txt"},
				{Key: "highlights/original/b.WEBP"},
			}},
			expected: []string{"highlights/original/a.gif", "highlights/original/b.WEBP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewHighlightService(HighlightServiceConfig{Folder: "highlights", Store: tt.store})
			assert.Equal(t, tt.expected, service.Refs())
		})
	}
}

func TestHighlightResolve(t *testing.T) {
	service := NewHighlightService(HighlightServiceConfig{Folder: "highlights", Store: fakeHighlightStore{}})

	external, err := service.Resolve(FallbackHighlights[0])
	require.NoError(t, err)
	assert.Equal(t, FallbackHighlights[0], external.ThumbnailURL)
	assert.Equal(t, FallbackHighlights[0], external.FullURL)

	stored, err := service.Resolve("highlights/original/goal.gif")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.test/highlights/original/goal.gif?signed", stored.FullURL)
	assert.Equal(t, "https://bucket.test/highlights/thumbnail/goal.jpg?signed", stored.ThumbnailURL)

	_, err = service.Resolve("")
	assert.Error(t, err)
}
