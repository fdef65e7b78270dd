package tagger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/f2aac/internal/domains/tagger/dto"
)

// Transfer copies artwork and, when options.Tags is set, textual tags from
// sourcePath into the MP4 file at targetPath. The target is rewritten
// through a temporary file and replaced only when the muxer succeeds.
func (t *Tagger) Transfer(ctx context.Context, targetPath, sourcePath string, options dto.Options) error {
	logger := t.app.Logger().WithFields(logrus.Fields{
		"source file": sourcePath,
		"destination": targetPath,
	})

	var art *cover

	if options.Cover {
		var err error

		art, err = extractCover(sourcePath)
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrTag, err)
		}

		if art == nil {
			if albumArt := findAlbumArt(filepath.Dir(sourcePath)); albumArt != "" {
				logger.WithField("album art path", albumArt).Debug("Found album art")

				art = &cover{path: albumArt}
			}
		}
	}

	if art == nil && !options.Tags {
		logger.Debug("No cover art found, nothing to transfer")

		return nil
	}

	targetDir := filepath.Dir(targetPath)

	coverPath := ""
	if art != nil {
		path, cleanup, err := art.materialize(targetDir)
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrTag, err)
		}
		defer cleanup()

		coverPath = path
	}

	tagsSource := ""
	if options.Tags {
		tagsSource = sourcePath
	}

	err := t.remux(ctx, targetPath, coverPath, tagsSource, logger)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrTag, err)
	}

	logger.WithFields(logrus.Fields{
		"cover": coverPath != "",
		"tags":  options.Tags,
	}).Debug("Tags transferred")

	return nil
}

func (t *Tagger) remux(ctx context.Context, targetPath, coverPath, tagsSource string, logger *logrus.Entry) error {
	tmp, err := os.CreateTemp(filepath.Dir(targetPath), ".f2aac-tagging-*.m4a")
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrMuxer, err)
	}

	tmpPath := tmp.Name()
	tmp.Close()

	args := muxerArgs(targetPath, coverPath, tagsSource, tmpPath)

	logger.WithField("muxer command", t.muxer+" "+strings.Join(args, " ")).Debug("Muxer parameters")

	muxer := exec.CommandContext(ctx, t.muxer, args...)

	var stderr bytes.Buffer
	muxer.Stderr = &stderr

	if err := muxer.Run(); err != nil {
		os.Remove(tmpPath)

		logger.WithError(err).WithField("muxer stderr", stderr.String()).Debug("Got muxer stderr")

		return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrMuxer, err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("%w: %w (%w)", ErrTagger, ErrMuxer, err)
	}

	return nil
}

// muxerArgs builds an ffmpeg command that copies the audio of targetPath
// unchanged, attaches coverPath as cover art and takes metadata either from
// the target itself or from tagsSource. Empty paths are left out.
func muxerArgs(targetPath, coverPath, tagsSource, outputPath string) []string {
	args := []string{"-v", "error", "-y", "-i", targetPath}
	maps := []string{"-map", "0:a"}
	metadataInput := 0
	nextInput := 1

	if coverPath != "" {
		args = append(args, "-i", coverPath)
		maps = append(maps, "-map", strconv.Itoa(nextInput)+":v")
		nextInput++
	}

	if tagsSource != "" {
		args = append(args, "-i", tagsSource)
		metadataInput = nextInput
	}

	args = append(args, maps...)
	args = append(args, "-c", "copy")

	if coverPath != "" {
		args = append(args, "-disposition:v:0", "attached_pic")
	}

	args = append(args, "-map_metadata", strconv.Itoa(metadataInput), outputPath)

	return args
}
