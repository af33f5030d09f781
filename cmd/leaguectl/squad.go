package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adampresley/anleague/pkg/models"
)

func readSquadFile(path string) ([]models.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening players file '%s': %w", path, err)
	}
	defer f.Close()

	return parseSquad(f)
}

/*
parseSquad reads one "name:position" entry per line. Blank lines and lines
starting with # are skipped.
*/
func parseSquad(r io.Reader) ([]models.Player, error) {
	result := []models.Player{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		i := strings.LastIndex(line, ":")
		if i < 0 {
			return nil, fmt.Errorf("error parsing players line %d: expected name:position", lineNumber)
		}

		name := strings.TrimSpace(line[:i])
		natural, ok := models.ParsePosition(line[i+1:])

		if name == "" || !ok {
			return nil, fmt.Errorf("error parsing players line %d: %q is not name:position", lineNumber, line)
		}

		result = append(result, models.Player{Name: name, Natural: natural})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading players: %w", err)
	}

	return result, nil
}
