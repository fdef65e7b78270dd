package domains

import (
	"context"

	"source.hodakov.me/hdkv/f2aac/internal/domains/tagger/dto"
)

const TaggerName = "tagger"

type Tagger interface {
	Transfer(ctx context.Context, targetPath, sourcePath string, options dto.Options) error
}
