package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adampresley/anleague/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}

	return &CLI{
		DSN:              "file:" + filepath.Join(t.TempDir(), "league.db"),
		RandSeed:         7,
		HighlightsFolder: "highlights",
		out:              out,
	}, out
}

func TestTournamentFromTheCommandLine(t *testing.T) {
	cli, out := newTestCLI(t)

	require.NoError(t, (&SeedCmd{Count: 7}).Run(cli))
	assert.Equal(t, 7, strings.Count(out.String(), "registered"))

	err := (&StartCmd{}).Run(cli)
	require.ErrorIs(t, err, models.ErrNotEnoughTeams)

	require.NoError(t, (&AddTeamCmd{}).Run(cli))

	out.Reset()
	require.NoError(t, (&StartCmd{}).Run(cli))
	assert.Equal(t, 4, strings.Count(out.String(), string(models.Quarterfinal)))

	out.Reset()
	require.NoError(t, (&SimulateCmd{ID: 1}).Run(cli))
	assert.Contains(t, out.String(), "Final score:")

	require.ErrorIs(t, (&SimulateCmd{ID: 1}).Run(cli), models.ErrMatchAlreadyPlayed)

	out.Reset()
	require.NoError(t, (&SimulateAllCmd{}).Run(cli))
	assert.Contains(t, out.String(), string(models.Final))
	assert.Contains(t, out.String(), "champion: ")

	require.NoError(t, (&NotifyCmd{}).Run(cli))

	out.Reset()
	require.NoError(t, (&ResetCmd{}).Run(cli))
	assert.Contains(t, out.String(), "all matches deleted")
}

func TestTeamCommands(t *testing.T) {
	cli, out := newTestCLI(t)

	require.NoError(t, (&SeedCmd{Count: 2}).Run(cli))

	out.Reset()
	require.NoError(t, (&ReplaceTeamCmd{ID: 1}).Run(cli))
	assert.Contains(t, out.String(), "replaced team 1 with")

	out.Reset()
	require.NoError(t, (&RemoveTeamCmd{ID: 2}).Run(cli))
	assert.Contains(t, out.String(), "removed team 2")
}

func TestAddTeamFromPlayersFile(t *testing.T) {
	cli, out := newTestCLI(t)

	path := filepath.Join(t.TempDir(), "squad.txt")
	require.NoError(t, os.WriteFile(path, []byte("Sadio Mane:AT\nEdouard Mendy:GK\nKalidou Koulibaly:DF\n"), 0o644))

	cmd := &AddTeamCmd{
		Country:  "Senegal",
		Manager:  "Aliou Cisse",
		RepName:  "Awa Ndiaye",
		RepEmail: "awa@senegal.example.com",
		Players:  path,
		Captain:  2,
	}

	require.NoError(t, cmd.Run(cli))
	assert.Contains(t, out.String(), "registered Senegal (id 1")

	duplicate := &AddTeamCmd{Country: "Mali", RepEmail: "awa@senegal.example.com", Autofill: true}
	assert.ErrorIs(t, duplicate.Run(cli), models.ErrRepAlreadyRegistered)

	noSquad := &AddTeamCmd{Country: "Mali", RepEmail: "rep@mali.example.com"}
	assert.ErrorIs(t, noSquad.Run(cli), models.ErrInvalidTeam)

	out.Reset()
	autofilled := &AddTeamCmd{Country: "Mali", RepEmail: "rep@mali.example.com", Autofill: true}
	require.NoError(t, autofilled.Run(cli))
	assert.Contains(t, out.String(), "registered Mali (id 2")
}
