package main

import (
	"fmt"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/services"
)

type SeedCmd struct {
	Count int `help:"Number of demo teams to register" default:"7"`
}

func (s *SeedCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	teams, err := l.service.Seed(s.Count)
	if err != nil {
		return err
	}

	for _, team := range teams {
		cli.printf("registered %s (id %d, rating %.2f)\n", team.Country, team.ID, team.Rating)
	}

	return nil
}

type AddTeamCmd struct {
	Country  string `help:"Country of the team. Without one a random demo team is registered"`
	Manager  string `help:"Team manager"`
	RepName  string `help:"Representative name"`
	RepEmail string `help:"Representative email"`
	Players  string `help:"File with one name:position line per player (GK, DF, MD, AT)" type:"existingfile"`
	Captain  int    `help:"Zero-based index of the captain in the players file" default:"0"`
	Autofill bool   `help:"Generate the squad instead of reading a players file"`
}

func (a *AddTeamCmd) Run(cli *CLI) error {
	var (
		err     error
		team    *models.Team
		players []models.Player
	)

	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	if a.Country == "" {
		team, err = l.service.AddTeam()
	} else {
		if a.Players != "" && !a.Autofill {
			if players, err = readSquadFile(a.Players); err != nil {
				return err
			}
		}

		team, err = l.service.RegisterTeam(services.TeamRegistration{
			Country:      a.Country,
			Manager:      a.Manager,
			RepName:      a.RepName,
			RepEmail:     a.RepEmail,
			Players:      players,
			CaptainIndex: a.Captain,
			Autofill:     a.Autofill,
		})
	}

	if err != nil {
		return err
	}

	cli.printf("registered %s (id %d, rating %.2f)\n", team.Country, team.ID, team.Rating)
	return nil
}

type RemoveTeamCmd struct {
	ID uint `arg:"" help:"Team ID"`
}

func (r *RemoveTeamCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	if err = l.service.RemoveTeam(r.ID); err != nil {
		return err
	}

	cli.printf("removed team %d\n", r.ID)
	return nil
}

type ReplaceTeamCmd struct {
	ID uint `arg:"" help:"Team ID"`
}

func (r *ReplaceTeamCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	team, err := l.service.ReplaceTeam(r.ID)
	if err != nil {
		return err
	}

	cli.printf("replaced team %d with %s (id %d)\n", r.ID, team.Country, team.ID)
	return nil
}

type StartCmd struct{}

func (s *StartCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	matches, err := l.service.Start()
	if err != nil {
		return err
	}

	for _, match := range matches {
		printMatch(cli, match)
	}

	return nil
}

type SimulateCmd struct {
	ID uint `arg:"" help:"Match ID"`
}

func (s *SimulateCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	match, err := l.service.SimulateMatch(s.ID)
	if err != nil {
		return err
	}

	printMatch(cli, match)
	cli.printf("%s\n", match.Commentary)
	return nil
}

type SimulateAllCmd struct{}

func (s *SimulateAllCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	matches, err := l.service.SimulateAll()
	if err != nil {
		return err
	}

	for _, match := range matches {
		printMatch(cli, match)
	}

	latest, err := l.tournaments.GetLatest()
	if err != nil {
		return err
	}

	if latest != nil {
		cli.printf("champion: %s\n", latest.WinnerCountry)
	}

	return nil
}

type ResetCmd struct{}

func (r *ResetCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	if err = l.service.Reset(); err != nil {
		return err
	}

	cli.printf("all matches deleted\n")
	return nil
}

type NotifyCmd struct{}

func (n *NotifyCmd) Run(cli *CLI) error {
	l, err := cli.openLeague()
	if err != nil {
		return err
	}
	defer l.Close()

	return l.service.Notify()
}

func printMatch(cli *CLI, match *models.Match) {
	line := fmt.Sprintf("#%d %-12s %s vs %s", match.ID, match.Stage, match.Team1Country, match.Team2Country)

	if match.Played {
		line = fmt.Sprintf("#%d %-12s %s %d - %d %s", match.ID, match.Stage, match.Team1Country, match.Score1, match.Score2, match.Team2Country)
	}

	cli.printf("%s\n", line)
}
