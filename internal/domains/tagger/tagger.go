package tagger

import (
	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

var (
	_ domains.Tagger = new(Tagger)
	_ domains.Domain = new(Tagger)
)

// Tagger copies cover art and, on request, textual tags from a source file
// into a converted MP4 container.
type Tagger struct {
	app   *application.App
	muxer string
}

func New(app *application.App) *Tagger {
	return &Tagger{
		app:   app,
		muxer: app.Config().Transcoding.Muxer,
	}
}

func (t *Tagger) ConnectDependencies() error {
	return nil
}

func (t *Tagger) Start() error {
	return nil
}
