package main

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/anleague/cmd/website/internal/configuration"
	"github.com/adampresley/anleague/cmd/website/internal/home"
	"github.com/adampresley/anleague/cmd/website/internal/matches"
	"github.com/adampresley/anleague/cmd/website/internal/media"
	"github.com/adampresley/anleague/cmd/website/internal/stats"
	"github.com/adampresley/anleague/cmd/website/internal/thumbnails"
	"github.com/adampresley/anleague/pkg/database"
	"github.com/adampresley/anleague/pkg/services"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "anleague"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	db                *sqlz.DB
	highlightService  services.HighlightServicer
	matchService      services.MatchServicer
	renderer          rendering.TemplateRenderer
	teamService       services.TeamServicer
	thumbnailCreator  thumbnails.ThumbnailCreator
	tournamentService services.TournamentServicer

	/* Controllers */
	homeController    home.HomeHandlers
	matchesController matches.MatchesHandlers
	mediaController   media.MediaHandlers
	statsController   stats.StatsHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
		slog.String("highlightsFolder", config.HighlightsFolder),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	if db, err = database.Connect(config.DSN); err != nil {
		panic(err)
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	teamService = services.NewTeamService(services.TeamServiceConfig{
		DB: db,
	})

	matchService = services.NewMatchService(services.MatchServiceConfig{
		DB: db,
	})

	tournamentService = services.NewTournamentService(services.TournamentServiceConfig{
		DB: db,
	})

	highlightService = services.NewHighlightService(services.HighlightServiceConfig{
		Folder: config.HighlightsFolder,
		Store:  services.NewS3HighlightStore(s3Client, config.AwsBucket),
	})

	thumbnailCreator = thumbnails.NewThumbnailCreatorService(thumbnails.ThumbnailCreatorConfig{
		AwsRegion:        config.AwsRegion,
		HighlightsFolder: config.HighlightsFolder,
		MaxSize:          uint(max(1, config.HighlightThumbnailSize)),
		MaxWorkers:       config.MaxCacheWorkers,
		ShutdownCtx:      shutdownCtx,
		Store:            thumbnails.NewS3ThumbnailStore(s3Client, config.AwsBucket),
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		MatchService: matchService,
		Renderer:     renderer,
		TeamService:  teamService,
	})

	matchesController = matches.NewMatchesController(matches.MatchesControllerConfig{
		CrowdSoundURL:       config.CrowdSoundURL,
		GoalSoundURL:        config.GoalSoundURL,
		HighlightService:    highlightService,
		MatchService:        matchService,
		MaxHighlightWorkers: config.MaxCacheWorkers,
		Renderer:            renderer,
	})

	mediaController = media.NewMediaController(media.MediaControllerConfig{
		Folder: config.MediaFolder,
		Store:  media.NewS3MediaStore(s3Client, config.AwsBucket),
	})

	statsController = stats.NewStatsController(stats.StatsControllerConfig{
		MatchService:      matchService,
		Renderer:          renderer,
		TeamService:       teamService,
		TournamentService: tournamentService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	requestLogger := newRequestLoggerMiddleware(
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	logged := []mux.MiddlewareFunc{requestLogger}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: logged},
		{Path: "GET /teams", HandlerFunc: homeController.TeamsPage, Middlewares: logged},
		{Path: "GET /teams/{id}", HandlerFunc: homeController.TeamPage, Middlewares: logged},
		{Path: "GET /bracket", HandlerFunc: matchesController.BracketPage, Middlewares: logged},
		{Path: "GET /match/{id}", HandlerFunc: matchesController.MatchPage, Middlewares: logged},
		{Path: "GET /leaderboard", HandlerFunc: statsController.LeaderboardPage, Middlewares: logged},
		{Path: "GET /analytics", HandlerFunc: statsController.AnalyticsPage, Middlewares: logged},
		{Path: "GET /history", HandlerFunc: statsController.HistoryPage, Middlewares: logged},
		{Path: "GET /media/{key...}", HandlerFunc: mediaController.Stream, Middlewares: logged},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the highlight thumbnail job
	 */
	setupThumbnailCreator(shutdownCtx)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupThumbnailCreator(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := make(chan struct{}, 1)

		runner := func() {
			select {
			case running <- struct{}{}:
			default:
				slog.Info("thumbnail creator already running. skipping...")
				return
			}

			go func() {
				defer func() { <-running }()

				thumbnailCreator.CreateThumbnails()
				slog.Info("thumbnail creator finished.")
			}()
		}

		runner()

		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return

			case <-ticker.C:
				runner()
			}
		}
	}()
}
