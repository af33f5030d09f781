package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/anleague/pkg/database"
	"github.com/adampresley/anleague/pkg/services"
	"github.com/alecthomas/kong"
	"github.com/rfberaldo/sqlz"
)

type CLI struct {
	Version  kong.VersionFlag `help:"Show version information"`
	LogLevel string           `help:"Log level (debug, info, warn, error)" default:"info" env:"LOG_LEVEL"`
	DSN      string           `help:"Data source name" default:"file:./data/anleague.db" env:"DSN"`
	RandSeed uint64           `help:"Seed for team generation and simulation. 0 picks one from the clock" default:"0" env:"RAND_SEED"`

	UseBucket          bool   `help:"Draw highlight clips from the S3 bucket instead of the built-in ones" env:"USE_BUCKET"`
	AwsEndpointUrl     string `help:"AWS endpoint URL" default:"http://localhost:4566" env:"AWS_ENDPOINT_URL"`
	AwsRegion          string `help:"AWS region" default:"us-central-1" env:"AWS_REGION"`
	AwsAccessKeyId     string `help:"AWS access key ID" env:"AWS_ACCESS_KEY_ID"`
	AwsSecretAccessKey string `help:"AWS secret access key" env:"AWS_SECRET_ACCESS_KEY"`
	AwsBucket          string `help:"S3 bucket holding highlight clips" default:"anleague" env:"AWS_BUCKET"`
	HighlightsFolder   string `help:"S3 folder for highlight clips" default:"highlights" env:"HIGHLIGHTS_FOLDER"`

	EmailApiKey string `help:"API key for sending emails. Without one, notifications are logged" env:"EMAIL_API_KEY"`
	FromEmail   string `help:"Sender address for notifications" default:"noreply@anleague.example.com" env:"FROM_EMAIL"`
	FromName    string `help:"Sender name for notifications" default:"African Nations League" env:"FROM_NAME"`

	Seed        SeedCmd        `cmd:"seed" help:"Register demo teams"`
	AddTeam     AddTeamCmd     `cmd:"add-team" help:"Register one more demo team"`
	RemoveTeam  RemoveTeamCmd  `cmd:"remove-team" help:"Remove a team"`
	ReplaceTeam ReplaceTeamCmd `cmd:"replace-team" help:"Replace a team with a fresh demo team"`
	Start       StartCmd       `cmd:"start" help:"Draw the quarterfinals from the first eight teams"`
	Simulate    SimulateCmd    `cmd:"simulate" help:"Simulate one match"`
	SimulateAll SimulateAllCmd `cmd:"simulate-all" help:"Simulate every remaining match until a champion is crowned"`
	Reset       ResetCmd       `cmd:"reset" help:"Delete all matches"`
	Notify      NotifyCmd      `cmd:"notify" help:"Email the latest tournament summary to every representative"`
	VerifyPage  VerifyPageCmd  `cmd:"verify-page" help:"Check the interactive behaviour of a rendered match page"`

	out io.Writer `kong:"-"`
}

// AfterApply installs the process logger once flags are parsed.
func (c *CLI) AfterApply() error {
	setupLogger(c.LogLevel, Version)
	return nil
}

func (c *CLI) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}

	return c.out
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout(), format, args...)
}

func (c *CLI) rng() *rand.Rand {
	seed := c.RandSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

type league struct {
	db          *sqlz.DB
	service     services.LeagueService
	tournaments services.TournamentService
}

func (c *CLI) openLeague() (league, error) {
	var (
		err error
		db  *sqlz.DB
	)

	if db, err = database.Connect(c.DSN); err != nil {
		return league{}, err
	}

	result := league{
		db:          db,
		tournaments: services.NewTournamentService(services.TournamentServiceConfig{DB: db}),
	}

	highlightConfig := services.HighlightServiceConfig{Folder: c.HighlightsFolder}

	if c.UseBucket {
		if highlightConfig.Store, err = c.highlightStore(); err != nil {
			_ = database.Close(db)
			return league{}, err
		}
	}

	result.service = services.NewLeagueService(services.LeagueServiceConfig{
		HighlightService: services.NewHighlightService(highlightConfig),
		MatchService:     services.NewMatchService(services.MatchServiceConfig{DB: db}),
		NotificationService: services.NewNotificationService(services.NotificationServiceConfig{
			EmailApiKey: c.EmailApiKey,
			FromEmail:   c.FromEmail,
			FromName:    c.FromName,
		}),
		Rand:              c.rng(),
		TeamService:       services.NewTeamService(services.TeamServiceConfig{DB: db}),
		TournamentService: result.tournaments,
	})

	return result, nil
}

func (l league) Close() {
	if err := database.Close(l.db); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func (c *CLI) highlightStore() (services.HighlightObjectStore, error) {
	var (
		err      error
		s3Client s3.S3Client
	)

	awsConfig := &awsconfig.Config{
		Endpoint:        c.AwsEndpointUrl,
		Region:          c.AwsRegion,
		AccessKeyID:     c.AwsAccessKeyId,
		SecretAccessKey: c.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	if s3Client, err = s3.NewClient(awsConfig); err != nil {
		return nil, fmt.Errorf("error creating S3 client: %w", err)
	}

	return services.NewS3HighlightStore(s3Client, c.AwsBucket), nil
}

func setupLogger(logLevel, version string) {
	level := slog.LevelInfo

	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, options)
	if version == "development" {
		handler = slog.NewTextHandler(os.Stderr, options)
	}

	slog.SetDefault(slog.New(handler).With("app", "leaguectl"))
}
