package services

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/adampresley/adamgokit/email"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/anleague/pkg/models"
)

type NotificationServicer interface {
	NotifyMatchResult(match *models.Match, team1, team2 *models.Team) error
	NotifyTournamentResult(tournament *models.Tournament, matches []*models.Match, teams []*models.Team) error
}

/*
Mailer sends one message. The Resend service from adamgokit satisfies it.
*/
type Mailer interface {
	Send(mail email.Mail) error
}

type NotificationServiceConfig struct {
	EmailApiKey string
	FromName    string
	FromEmail   string
	Mailer      Mailer
}

/*
NotificationService emails team representatives. Without an email API key
the messages are written to the log instead.
*/
type NotificationService struct {
	fromName  string
	fromEmail string
	mailer    Mailer
}

func NewNotificationService(config NotificationServiceConfig) NotificationService {
	mailer := config.Mailer

	if mailer == nil && config.EmailApiKey != "" {
		mailer = email.NewResendService(&email.Config{
			ApiKey: config.EmailApiKey,
		})
	}

	return NotificationService{
		fromName:  config.FromName,
		fromEmail: config.FromEmail,
		mailer:    mailer,
	}
}

var matchResultTemplate = template.Must(template.New("match").Parse(`
<h1>{{.Team1}} {{.Score1}} - {{.Score2}} {{.Team2}}</h1>
<p>{{.Stage}} final score.</p>
{{if .Scorers}}<h2>Scorers</h2>
<ul>{{range .Scorers}}
<li>{{.TeamCountry}}: {{.Player}} ({{.Minute}}')</li>{{end}}
</ul>{{end}}
{{if .Commentary}}<h2>Match commentary</h2>
<p>{{.Commentary}}</p>{{end}}
`))

var tournamentTemplate = template.Must(template.New("tournament").Parse(`
<h1>Tournament completed</h1>
<p>Finished on {{.PlayedAt}}. Winner: <strong>{{.Winner}}</strong></p>
<h2>Matches</h2>
<ul>{{range .Matches}}
<li>{{.Stage}}: {{.Team1Country}} {{.Score1}} - {{.Score2}} {{.Team2Country}}{{if .Scorers}}<br>Scorers: {{range $i, $s := .Scorers}}{{if $i}}; {{end}}{{$s.Minute}}' {{$s.TeamCountry}}: {{$s.Player}}{{end}}{{end}}</li>{{end}}
</ul>
`))

func (s NotificationService) NotifyMatchResult(match *models.Match, team1, team2 *models.Team) error {
	recipients := collectRecipients([]*models.Team{team1, team2})

	subject := fmt.Sprintf("Match result: %s %d - %d %s", match.Team1Country, match.Score1, match.Score2, match.Team2Country)
	body := strings.Builder{}

	err := matchResultTemplate.Execute(&body, map[string]any{
		"Team1":      match.Team1Country,
		"Team2":      match.Team2Country,
		"Score1":     match.Score1,
		"Score2":     match.Score2,
		"Stage":      match.Stage,
		"Scorers":    match.Scorers,
		"Commentary": match.Commentary,
	})

	if err != nil {
		return fmt.Errorf("error building match result email: %w", err)
	}

	return s.send(subject, body.String(), recipients)
}

func (s NotificationService) NotifyTournamentResult(tournament *models.Tournament, matches []*models.Match, teams []*models.Team) error {
	winner := "TBD"
	playedAt := ""

	if tournament != nil {
		winner = tournament.WinnerCountry
		playedAt = tournament.PlayedAt.UTC().Format("2006-01-02 15:04 UTC")
	}

	subject := fmt.Sprintf("Tournament completed: Winner - %s", winner)
	body := strings.Builder{}

	err := tournamentTemplate.Execute(&body, map[string]any{
		"Winner":   winner,
		"PlayedAt": playedAt,
		"Matches":  matches,
	})

	if err != nil {
		return fmt.Errorf("error building tournament email: %w", err)
	}

	return s.send(subject, body.String(), collectRecipients(teams))
}

func (s NotificationService) send(subject, body string, recipients []email.EmailAddress) error {
	if len(recipients) == 0 {
		slog.Info("no recipients configured for notification", "subject", subject)
		return nil
	}

	if s.mailer == nil {
		slog.Info("email not configured, logging notification",
			"subject", subject,
			"to", slices.Map(recipients, func(input email.EmailAddress, index int) string { return input.Email }),
			"body", body,
		)

		return nil
	}

	err := s.mailer.Send(email.Mail{
		Body:       body,
		BodyIsHtml: true,
		From: email.EmailAddress{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		Subject: subject,
		To:      recipients,
	})

	if err != nil {
		return fmt.Errorf("error sending '%s' to %d recipients: %w", subject, len(recipients), err)
	}

	slog.Info("notification sent", "subject", subject, "recipients", len(recipients))
	return nil
}

func collectRecipients(teams []*models.Team) []email.EmailAddress {
	result := []email.EmailAddress{}
	seen := []string{}

	for _, team := range teams {
		if team == nil || team.RepEmail == "" || slices.IsInSlice(team.RepEmail, seen) {
			continue
		}

		seen = append(seen, team.RepEmail)
		result = append(result, email.EmailAddress{Name: team.RepName, Email: team.RepEmail})
	}

	return result
}
