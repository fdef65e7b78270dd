package converter

import (
	"fmt"
	"path/filepath"

	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
)

// targetClaims detects jobs that would write the same file, e.g.
// "song.flac" and "song.mp3" converted into one directory. The first job
// keeps the target; every later one is refused instead of overwriting it.
// It is only used from the admitting goroutine.
type targetClaims struct {
	owners map[string]string
}

func newTargetClaims() *targetClaims {
	return &targetClaims{
		owners: make(map[string]string),
	}
}

func (tc *targetClaims) claim(job listerDTO.Job) error {
	key := targetKey(job.TargetPath())

	owner, exists := tc.owners[key]
	if exists {
		return fmt.Errorf(
			"%w: %w (%s is already produced from %s)",
			ErrConverter, ErrTargetCollision, job.TargetPath(), owner,
		)
	}

	tc.owners[key] = job.SourcePath

	return nil
}

func targetKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
