package transcoder

import (
	"fmt"
	"os"
)

// EnsureOutputDirectory creates dir and its parents. Several workers may
// race to create the same directory; an existing directory is not an error.
func EnsureOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrFailedToCreateOutputDirectory, err)
	}

	return nil
}
