package lister

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

var (
	_ domains.Lister = new(Lister)
	_ domains.Domain = new(Lister)
)

// DefaultExtensions are listed when no format is requested.
var DefaultExtensions = []string{".flac", ".mp3"}

type Lister struct {
	app *application.App
}

func New(app *application.App) *Lister {
	return &Lister{
		app: app,
	}
}

func (l *Lister) ConnectDependencies() error {
	return nil
}

func (l *Lister) Start() error {
	return nil
}

// Extensions turns the -f value into an extension filter. An empty format
// selects every supported extension.
func Extensions(format string) []string {
	format = strings.TrimSpace(format)
	if format == "" {
		return DefaultExtensions
	}

	return []string{"." + strings.TrimPrefix(format, ".")}
}

func matchesExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

// isRegularFile follows symlinks, so a link to a file counts and a link to
// a directory does not.
func isRegularFile(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}

	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))

	return err == nil && info.Mode().IsRegular()
}
