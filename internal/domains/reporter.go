package domains

import "io"

const ReporterName = "reporter"

// Reporter owns the terminal. Log lines written to it and progress updates
// are drawn by a single goroutine, so they never interleave.
type Reporter interface {
	io.Writer
	Progress(completed, total int)
}
