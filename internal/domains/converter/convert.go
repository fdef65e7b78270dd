package converter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"source.hodakov.me/hdkv/f2aac/internal/domains/converter/dto"
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
)

// ConvertFile converts a single file on the calling goroutine.
func (c *Converter) ConvertFile(ctx context.Context, job listerDTO.Job) dto.Result {
	output, err := c.transcoder.Convert(ctx, job)
	result := dto.NewResult(job, output, err)

	c.logResult(result)

	return result
}

// ConvertDirectory lists dir and converts every matching file into
// outputDir. Only a listing failure is returned as an error; per-file
// failures are part of the report.
func (c *Converter) ConvertDirectory(
	ctx context.Context, dir, outputDir string, extensions []string,
) (*dto.Report, error) {
	jobs, err := c.lister.List(dir, outputDir, extensions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (%w)", ErrConverter, ErrListing, err)
	}

	return c.ConvertBatch(ctx, jobs), nil
}

// ConvertBatch runs jobs with at most c.parallel conversions in flight.
// Jobs are admitted in order; results are collected as they complete and
// every completion advances the progress bar. A failed job never stops the
// batch. After ctx is cancelled, jobs not yet started are reported as
// cancelled and running ones are killed by the transcoder.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []listerDTO.Job) *dto.Report {
	report, _ := c.convertBatch(ctx, jobs)

	return report
}

func (c *Converter) convertBatch(ctx context.Context, jobs []listerDTO.Job) (*dto.Report, *batchState) {
	state := newBatchState(len(jobs))
	report := dto.NewReport(len(jobs))

	c.app.Logger().WithFields(logrus.Fields{
		"files":    len(jobs),
		"parallel": c.parallel,
	}).Info("Starting batch")

	c.reporter.Progress(0, len(jobs))

	results := make(chan dto.Result)

	go c.admit(ctx, jobs, state, results)

	for result := range results {
		completed := state.finish()
		report.Add(result)

		c.logResult(result)
		c.reporter.Progress(completed, state.total)
	}

	return report, state
}

// admit feeds jobs to the worker group and closes results once every
// admitted job has reported back.
func (c *Converter) admit(
	ctx context.Context, jobs []listerDTO.Job, state *batchState, results chan<- dto.Result,
) {
	defer close(results)

	claims := newTargetClaims()

	group := new(errgroup.Group)
	group.SetLimit(c.parallel)

	for index, job := range jobs {
		if err := claims.claim(job); err != nil {
			results <- dto.NewResult(job, nil, err)

			continue
		}

		if ctx.Err() != nil {
			results <- dto.NewResult(job, nil, cancelled(ctx))

			continue
		}

		// Go blocks until one of the c.parallel slots frees up.
		group.Go(func() error {
			if ctx.Err() != nil {
				results <- dto.NewResult(job, nil, cancelled(ctx))

				return nil
			}

			state.start(index)

			output, err := c.transcoder.Convert(ctx, job)

			state.stop(index)
			results <- dto.NewResult(job, output, err)

			return nil
		})
	}

	_ = group.Wait()
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w (%w)", ErrConverter, ErrCancelled, ctx.Err())
}

func (c *Converter) logResult(result dto.Result) {
	logger := c.app.Logger().WithField("source file", result.Job.SourcePath)

	switch {
	case !result.Success:
		logger.WithError(result.Err).Error("Conversion failed")
	case result.TagErr != nil:
		logger.WithError(result.TagErr).WithField("destination", result.TargetPath).
			Warn("Converted without cover art")
	default:
		logger.WithField("destination", result.TargetPath).Debug("Job finished")
	}
}
