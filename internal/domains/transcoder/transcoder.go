package transcoder

import (
	"fmt"

	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

var (
	_ domains.Transcoder = new(Transcoder)
	_ domains.Domain     = new(Transcoder)
)

// Supported source extensions. Directory listings may be narrowed further
// with -f, but nothing outside this set can be decoded to the intermediate
// format with tags intact.
var supportedExtensions = map[string]bool{
	".flac": true,
	".mp3":  true,
}

type Transcoder struct {
	app *application.App

	tagger domains.Tagger

	decoder            string
	encoder            string
	intermediateFormat string
	quality            int
	minOutputSize      int64
	skipFresh          bool
	quiet              bool
}

func New(app *application.App) *Transcoder {
	config := app.Config()

	return &Transcoder{
		app:                app,
		decoder:            config.Transcoding.Decoder,
		encoder:            config.Transcoding.Encoder,
		intermediateFormat: config.Transcoding.IntermediateFormat,
		quality:            config.Transcoding.Quality,
		minOutputSize:      config.Transcoding.MinOutputSize,
		skipFresh:          config.Transcoding.SkipFresh,
		quiet:              config.F2AAC.Quiet,
	}
}

func (t *Transcoder) ConnectDependencies() error {
	tagger, ok := t.app.RetrieveDomain(domains.TaggerName).(domains.Tagger)
	if !ok {
		return fmt.Errorf(
			"%w: %w (%s)", ErrTranscoder, ErrConnectDependencies,
			"tagger domain interface conversion failed",
		)
	}

	t.tagger = tagger

	return nil
}

func (t *Transcoder) Start() error {
	return nil
}
