package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/adampresley/anleague/pkg/matchpage"
	"github.com/adampresley/anleague/pkg/matchpage/htmldom"
)

type VerifyPageCmd struct {
	Target  string        `arg:"" help:"URL or file path of a rendered match page"`
	Timeout time.Duration `help:"Timeout for fetching the page" default:"10s"`
}

func (v *VerifyPageCmd) Run(cli *CLI) error {
	var (
		err  error
		body io.ReadCloser
	)

	if body, err = openPage(v.Target, v.Timeout); err != nil {
		return err
	}
	defer body.Close()

	report, err := verifyPage(body)

	if report != nil {
		b := report.Bindings
		cli.printf("goal controls: %d, thumbnails: %d, close controls: %d\n", b.GoalControls, b.Thumbnails, b.CloseControls)
		cli.printf("goal sound: %t, crowd sound: %t, lightbox: %t\n", b.GoalSound, b.CrowdSound, b.Lightbox)
	}

	if err != nil {
		return err
	}

	cli.printf("page ok\n")
	return nil
}

type pageReport struct {
	Bindings matchpage.Bindings
}

func openPage(target string, timeout time.Duration) (io.ReadCloser, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		f, err := os.Open(target)

		if err != nil {
			return nil, fmt.Errorf("error opening page file '%s': %w", target, err)
		}

		return f, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error building request for '%s': %w", target, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error fetching '%s': %w", target, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("error fetching '%s': unexpected status %d", target, resp.StatusCode)
	}

	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

/*
verifyPage binds a rendered match page against a simulated document and
drives every control once. A nil report means the page could not be parsed.
*/
func verifyPage(r io.Reader) (*pageReport, error) {
	doc, err := htmldom.Parse(r)
	if err != nil {
		return nil, err
	}

	scheduler := matchpage.NewManualScheduler()

	page, err := matchpage.Initialize(doc, matchpage.PageConfig{
		Logger:    slog.Default(),
		Scheduler: scheduler,
	})

	if err != nil {
		return nil, err
	}

	report := &pageReport{Bindings: page.Bindings()}
	problems := []error{}

	if control, ok := doc.First("." + matchpage.GoalControlClass); ok {
		problems = append(problems, checkGoalSounds(doc, scheduler, control)...)
	}

	if !report.Bindings.Lightbox {
		return report, errors.Join(problems...)
	}

	closeControl, hasClose := doc.First("#" + matchpage.ModalCloseID)

	for i, thumb := range doc.Find("." + matchpage.ThumbnailClass) {
		thumb.Click()

		want := thumb.Data(matchpage.FullDataKey)
		visible, source, _ := page.LightboxState()

		if visible != (source != "") {
			problems = append(problems, fmt.Errorf("thumbnail %d: lightbox visible=%t with source %q", i, visible, source))
		}

		if want != "" && source != want {
			problems = append(problems, fmt.Errorf("thumbnail %d: lightbox shows %q, want %q", i, source, want))
		}

		if !hasClose {
			continue
		}

		closeControl.Click()

		if visible, source, _ = page.LightboxState(); visible || source != "" {
			problems = append(problems, fmt.Errorf("thumbnail %d: lightbox still open after close", i))
		}
	}

	return report, errors.Join(problems...)
}

func checkGoalSounds(doc *htmldom.Document, scheduler *matchpage.ManualScheduler, control *htmldom.Element) []error {
	problems := []error{}

	goal, hasGoal := doc.Media(matchpage.GoalSoundID)
	crowd, hasCrowd := doc.Media(matchpage.CrowdSoundID)

	control.Click()

	if hasGoal && !goal.Playing {
		problems = append(problems, fmt.Errorf("goal sound did not play on click"))
	}

	if hasCrowd && crowd.Playing {
		problems = append(problems, fmt.Errorf("crowd sound played before its delay"))
	}

	scheduler.Advance(matchpage.DefaultCrowdDelay)

	if hasCrowd && !crowd.Playing {
		problems = append(problems, fmt.Errorf("crowd sound did not play after %s", matchpage.DefaultCrowdDelay))
	}

	return problems
}
