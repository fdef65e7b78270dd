package domains

import (
	"context"

	"source.hodakov.me/hdkv/f2aac/internal/domains/converter/dto"
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
)

const ConverterName = "converter"

type Converter interface {
	ConvertFile(ctx context.Context, job listerDTO.Job) dto.Result
	ConvertBatch(ctx context.Context, jobs []listerDTO.Job) *dto.Report
	ConvertDirectory(ctx context.Context, dir, outputDir string, extensions []string) (*dto.Report, error)
	LogSummary(report *dto.Report)
}
