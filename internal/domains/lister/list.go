package lister

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
)

// List returns a job for every regular file directly inside dir whose name
// ends with one of extensions. Subdirectories are not descended into.
func (l *Lister) List(dir, outputDir string, extensions []string) ([]dto.Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.app.Logger().WithError(err).WithField("path", dir).Error("Error reading directory")

		return nil, fmt.Errorf("%w: %w (%w)", ErrLister, ErrCantReadDirectory, err)
	}

	jobs := make([]dto.Job, 0, len(entries))

	for _, entry := range entries {
		if !matchesExtension(entry.Name(), extensions) || !isRegularFile(dir, entry) {
			continue
		}

		jobs = append(jobs, dto.NewJob(filepath.Join(dir, entry.Name()), outputDir))
	}

	l.app.Logger().WithFields(logrus.Fields{
		"path":       dir,
		"extensions": extensions,
		"files":      len(jobs),
	}).Debug("Listed directory")

	return jobs, nil
}
