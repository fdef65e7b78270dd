package domains

import "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"

const ListerName = "lister"

type Lister interface {
	List(dir, outputDir string, extensions []string) ([]dto.Job, error)
}
