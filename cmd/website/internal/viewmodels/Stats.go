package viewmodels

import (
	"github.com/adampresley/anleague/pkg/models"
)

type LeaderboardPage struct {
	BaseViewModel
	Scorers []models.TopScorer
}

type AnalyticsPage struct {
	BaseViewModel
	Teams []TeamAnalytics
}

type TeamAnalytics struct {
	Country string
	Rating  float64
	Stats   models.TeamStats
}

type HistoryPage struct {
	BaseViewModel
	Tournaments []*models.Tournament
}
