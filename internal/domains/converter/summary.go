package converter

import (
	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/f2aac/internal/domains/converter/dto"
)

// LogSummary prints batch totals and one line per failed file. Failures
// are logged at error level so they survive quiet mode.
func (c *Converter) LogSummary(report *dto.Report) {
	failed := report.Failed()
	fields := logrus.Fields{
		"total":     report.Total,
		"converted": report.Converted(),
		"skipped":   report.Skipped(),
		"failed":    len(failed),
	}

	if len(failed) == 0 {
		c.app.Logger().WithFields(fields).Info("All files converted")

		return
	}

	c.app.Logger().WithFields(fields).Error("Some files were not converted")

	for _, result := range failed {
		c.app.Logger().WithError(result.Err).WithField("source file", result.Job.SourcePath).
			Error("Failed")
	}
}
