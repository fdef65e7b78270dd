package domains

import (
	"context"

	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
	"source.hodakov.me/hdkv/f2aac/internal/domains/transcoder/dto"
)

const TranscoderName = "transcoder"

type Transcoder interface {
	Convert(ctx context.Context, job listerDTO.Job) (*dto.Output, error)
}
