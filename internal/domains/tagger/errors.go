package tagger

import "errors"

var (
	ErrTagger            = errors.New("tagger")
	ErrTag               = errors.New("tag transfer failed")
	ErrUnsupportedSource = errors.New("unsupported source format")
	ErrCantReadCover     = errors.New("can't read cover art")
	ErrCantWriteCover    = errors.New("can't write cover art")
	ErrMuxer             = errors.New("muxer failed")
)
