package converter

import (
	"fmt"

	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

var (
	_ domains.Converter = new(Converter)
	_ domains.Domain    = new(Converter)
)

// Converter runs conversion jobs on a bounded number of workers and keeps
// the progress bar in sync with completions.
type Converter struct {
	app *application.App

	lister     domains.Lister
	transcoder domains.Transcoder
	reporter   domains.Reporter

	parallel int
}

func New(app *application.App) *Converter {
	return &Converter{
		app:      app,
		parallel: max(1, int(app.Config().Transcoding.Parallel)),
	}
}

func (c *Converter) ConnectDependencies() error {
	lister, ok := c.app.RetrieveDomain(domains.ListerName).(domains.Lister)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConverter, ErrConnectDependencies,
			"lister domain interface conversion failed",
		)
	}

	transcoder, ok := c.app.RetrieveDomain(domains.TranscoderName).(domains.Transcoder)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConverter, ErrConnectDependencies,
			"transcoder domain interface conversion failed",
		)
	}

	reporter, ok := c.app.RetrieveDomain(domains.ReporterName).(domains.Reporter)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrConverter, ErrConnectDependencies,
			"reporter domain interface conversion failed",
		)
	}

	c.lister = lister
	c.transcoder = transcoder
	c.reporter = reporter

	return nil
}

func (c *Converter) Start() error {
	return nil
}
