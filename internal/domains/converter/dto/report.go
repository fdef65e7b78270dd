package dto

// Report collects the results of a batch in completion order.
type Report struct {
	Total   int
	Results []Result
}

func NewReport(total int) *Report {
	return &Report{
		Total:   total,
		Results: make([]Result, 0, total),
	}
}

func (r *Report) Add(result Result) {
	r.Results = append(r.Results, result)
}

// Converted counts jobs that produced a new file.
func (r *Report) Converted() int {
	count := 0

	for _, result := range r.Results {
		if result.Success && !result.Skipped {
			count++
		}
	}

	return count
}

func (r *Report) Skipped() int {
	count := 0

	for _, result := range r.Results {
		if result.Skipped {
			count++
		}
	}

	return count
}

func (r *Report) Failed() []Result {
	var failed []Result

	for _, result := range r.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}

	return failed
}

// TagWarnings lists converted jobs whose cover art could not be copied.
func (r *Report) TagWarnings() []Result {
	var warnings []Result

	for _, result := range r.Results {
		if result.Success && result.TagErr != nil {
			warnings = append(warnings, result)
		}
	}

	return warnings
}

// Succeeded reports whether every job of the batch finished and none failed.
func (r *Report) Succeeded() bool {
	return len(r.Results) == r.Total && len(r.Failed()) == 0
}
