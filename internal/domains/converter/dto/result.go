package dto

import (
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
	transcoderDTO "source.hodakov.me/hdkv/f2aac/internal/domains/transcoder/dto"
)

// Result is the outcome of one job. It is never modified after creation.
type Result struct {
	Job        listerDTO.Job
	TargetPath string
	Size       int64
	Success    bool
	Skipped    bool
	// Err explains a failed job.
	Err error
	// TagErr is set when the audio converted but cover art did not transfer.
	TagErr error
}

func NewResult(job listerDTO.Job, output *transcoderDTO.Output, err error) Result {
	result := Result{
		Job: job,
		Err: err,
	}

	if err == nil && output != nil {
		result.Success = true
		result.TargetPath = output.TargetPath
		result.Size = output.Size
		result.Skipped = output.Skipped
		result.TagErr = output.TagErr
	}

	return result
}
