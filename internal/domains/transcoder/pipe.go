package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// stderrTailLines is how much of a failed process' stderr ends up in logs.
const stderrTailLines = 10

func (t *Transcoder) decoderArgs(sourcePath string) []string {
	return []string{
		"-v", "0",
		"-i", sourcePath,
		"-f", t.intermediateFormat,
		"pipe:1",
	}
}

func (t *Transcoder) encoderArgs(targetPath string) []string {
	args := []string{
		"-",
		"-o", targetPath,
		"-m", strconv.Itoa(t.quality),
	}

	if t.quiet {
		args = append(args, "-S")
	}

	return args
}

// transcode runs the decoder and the encoder side by side, connected by an
// OS pipe. The encoder's exit status decides the outcome; a decoder failure
// is only logged because the encoder may still have written usable audio.
func (t *Transcoder) transcode(ctx context.Context, sourcePath, targetPath string, logger *logrus.Entry) error {
	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrPipe, err)
	}

	var decoderStderr, encoderStderr bytes.Buffer

	decoder := exec.CommandContext(ctx, t.decoder, t.decoderArgs(sourcePath)...)
	decoder.Stdout = writer
	decoder.Stderr = &decoderStderr

	encoder := exec.CommandContext(ctx, t.encoder, t.encoderArgs(targetPath)...)
	encoder.Stdin = reader
	encoder.Stderr = &encoderStderr

	logger.WithFields(logrus.Fields{
		"decoder command": t.decoder + " " + strings.Join(decoder.Args[1:], " "),
		"encoder command": t.encoder + " " + strings.Join(encoder.Args[1:], " "),
	}).Debug("External commands")

	// The encoder goes first so the decoder never blocks on a pipe nobody reads.
	err = encoder.Start()
	if err != nil {
		reader.Close()
		writer.Close()

		logger.WithError(err).Error("Failed to start encoder!")

		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrEncode, err)
	}

	err = decoder.Start()

	// Both children hold their own copies of the pipe now. Closing ours lets
	// the encoder see EOF and the decoder see EPIPE when the other side exits.
	reader.Close()
	writer.Close()

	if err != nil {
		_ = encoder.Wait()

		logger.WithError(err).Error("Failed to start decoder!")

		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrEncode, err)
	}

	encodeErr := encoder.Wait()
	decodeErr := decoder.Wait()

	if decodeErr != nil && ctx.Err() == nil {
		logger.WithError(decodeErr).WithField("decoder stderr", tail(decoderStderr.String())).
			Warn("Decoder exited with an error")
	}

	if encodeErr != nil {
		logger.WithError(encodeErr).WithField("encoder stderr", tail(encoderStderr.String())).
			Error("Encoder failed!")

		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrEncode, ctx.Err())
		}

		return fmt.Errorf("%w: %w (%w)", ErrTranscoder, ErrEncode, encodeErr)
	}

	return nil
}

func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}

	return strings.Join(lines, "\n")
}
