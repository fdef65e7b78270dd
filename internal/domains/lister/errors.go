package lister

import "errors"

var (
	ErrLister            = errors.New("lister")
	ErrCantReadDirectory = errors.New("can't read directory")
)
