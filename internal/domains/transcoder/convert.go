package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
	taggerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/tagger/dto"
	"source.hodakov.me/hdkv/f2aac/internal/domains/transcoder/dto"
)

// Convert decodes the job's source to the intermediate format, encodes it
// to AAC and places the result at the job's target path. Tags travel through
// the intermediate container, so only cover art is transferred afterwards.
// A failed cover transfer is reported on the output, not as an error.
func (t *Transcoder) Convert(ctx context.Context, job listerDTO.Job) (*dto.Output, error) {
	if !supportedExtensions[job.Extension()] {
		return nil, fmt.Errorf("%w: %w (%s)", ErrTranscoder, ErrUnsupportedFormat, job.SourceName)
	}

	if job.OutputDir != "" {
		if err := EnsureOutputDirectory(job.OutputDir); err != nil {
			return nil, err
		}
	}

	targetPath := job.TargetPath()
	logger := t.app.Logger().WithFields(logrus.Fields{
		"source file": job.SourcePath,
		"destination": targetPath,
	})

	if t.skipFresh {
		if size, ok := t.isFresh(job.SourcePath, targetPath); ok {
			logger.WithField("destination size", size).Info("Destination is up to date, skipping")

			return &dto.Output{TargetPath: targetPath, Size: size, Skipped: true}, nil
		}
	}

	logger.Debug("Transcoding file...")

	err := t.transcode(ctx, job.SourcePath, targetPath, logger)
	if err != nil {
		t.discard(targetPath, logger)

		return nil, err
	}

	size, err := t.verify(targetPath)
	if err != nil {
		logger.WithError(err).Error("Transcoded file not found (transcode error?). Check the logs for details")
		t.discard(targetPath, logger)

		return nil, err
	}

	output := &dto.Output{TargetPath: targetPath, Size: size}

	err = t.tagger.Transfer(ctx, targetPath, job.SourcePath, taggerDTO.Options{Tags: false, Cover: true})
	if err != nil {
		// Reported once, by whoever consumes the output.
		output.TagErr = err
	}

	logger.WithField("destination size", size).Info("File converted")

	return output, nil
}

// verify checks that the encoder actually produced something. Anything
// smaller than the configured minimum is most likely a truncated stream.
func (t *Transcoder) verify(targetPath string) (int64, error) {
	info, err := os.Stat(targetPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrTranscodedFileNotFound, err)
	}

	if info.Size() < t.minOutputSize {
		return 0, fmt.Errorf(
			"%w: %w (size is %d bytes, less than %d bytes)",
			ErrTranscoder, ErrTranscodedFileIsTooSmall, info.Size(), t.minOutputSize,
		)
	}

	return info.Size(), nil
}

// isFresh reports whether targetPath was produced after the source was last
// modified and looks complete.
func (t *Transcoder) isFresh(sourcePath, targetPath string) (int64, bool) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return 0, false
	}

	targetInfo, err := os.Stat(targetPath)
	if err != nil {
		return 0, false
	}

	if targetInfo.ModTime().After(sourceInfo.ModTime()) && targetInfo.Size() >= t.minOutputSize {
		return targetInfo.Size(), true
	}

	return 0, false
}

func (t *Transcoder) discard(targetPath string, logger *logrus.Entry) {
	err := os.Remove(targetPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).Warn("Failed to remove partial destination file")
	}
}
