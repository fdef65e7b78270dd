package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/configuration"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
	"source.hodakov.me/hdkv/f2aac/internal/domains/converter/dto"
	"source.hodakov.me/hdkv/f2aac/internal/domains/lister"
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
	"source.hodakov.me/hdkv/f2aac/internal/domains/transcoder"
	transcoderDTO "source.hodakov.me/hdkv/f2aac/internal/domains/transcoder/dto"
)

var errBroken = errors.New("broken source")

type progressCall struct {
	completed int
	total     int
}

type fakeReporter struct {
	mu    sync.Mutex
	calls []progressCall
}

func (f *fakeReporter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (f *fakeReporter) Progress(completed, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, progressCall{completed: completed, total: total})
}

func (f *fakeReporter) last() progressCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.calls) == 0 {
		return progressCall{}
	}

	return f.calls[len(f.calls)-1]
}

// fakeTranscoder writes a small file per job and fails sources whose name
// contains "broken". hook, when set, runs before the work starts.
type fakeTranscoder struct {
	delay  time.Duration
	hook   func(ctx context.Context, job listerDTO.Job) error
	tagErr error

	inFlight atomic.Int64
	peak     atomic.Int64

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeTranscoder) Convert(ctx context.Context, job listerDTO.Job) (*transcoderDTO.Output, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[job.SourcePath]++
	f.mu.Unlock()

	if f.hook != nil {
		if err := f.hook(ctx, job); err != nil {
			return nil, err
		}
	}

	time.Sleep(f.delay)

	if strings.Contains(job.SourceName, "broken") {
		return nil, errBroken
	}

	if job.OutputDir != "" {
		if err := transcoder.EnsureOutputDirectory(job.OutputDir); err != nil {
			return nil, err
		}
	}

	if err := os.WriteFile(job.TargetPath(), []byte("aac"), 0o644); err != nil {
		return nil, err
	}

	return &transcoderDTO.Output{TargetPath: job.TargetPath(), Size: 3, TagErr: f.tagErr}, nil
}

func newTestConverter(t *testing.T, parallel int64, fake *fakeTranscoder) (*Converter, *fakeReporter) {
	t.Helper()

	config := configuration.Default()
	config.Transcoding.Parallel = parallel

	app := application.NewWithConfig(context.Background(), config)
	app.SetLogOutput(io.Discard)

	reporter := new(fakeReporter)

	app.RegisterDomain(domains.ListerName, lister.New(app))
	app.RegisterDomain(domains.TranscoderName, fake)
	app.RegisterDomain(domains.ReporterName, reporter)

	converter := New(app)
	if err := converter.ConnectDependencies(); err != nil {
		t.Fatal(err)
	}

	return converter, reporter
}

func (f *fakeTranscoder) ConnectDependencies() error { return nil }
func (f *fakeTranscoder) Start() error               { return nil }
func (f *fakeReporter) ConnectDependencies() error   { return nil }
func (f *fakeReporter) Start() error                 { return nil }

func makeJobs(dir string, names ...string) []listerDTO.Job {
	jobs := make([]listerDTO.Job, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, listerDTO.NewJob(filepath.Join(dir, name), filepath.Join(dir, "out")))
	}

	return jobs
}

func TestConvertBatch_BoundedParallelism(t *testing.T) {
	tests := []struct {
		name     string
		parallel int64
		jobs     int
	}{
		{"single worker", 1, 6},
		{"more jobs than workers", 3, 12},
		{"more workers than jobs", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTranscoder{delay: 10 * time.Millisecond}
			converter, reporter := newTestConverter(t, tt.parallel, fake)

			dir := t.TempDir()
			names := make([]string, 0, tt.jobs)
			for i := range tt.jobs {
				names = append(names, "track"+string(rune('a'+i))+".flac")
			}

			report, state := converter.convertBatch(context.Background(), makeJobs(dir, names...))

			if !report.Succeeded() {
				t.Fatalf("batch failed: %+v", report.Failed())
			}

			if peak := fake.peak.Load(); peak > tt.parallel {
				t.Errorf("peak in flight = %d, limit %d", peak, tt.parallel)
			}

			if peak := int64(state.maxInFlight()); peak > tt.parallel {
				t.Errorf("tracked peak = %d, limit %d", peak, tt.parallel)
			}

			if state.inFlight() != 0 {
				t.Errorf("in flight after batch = %d", state.inFlight())
			}

			for path, count := range fake.calls {
				if count != 1 {
					t.Errorf("%s converted %d times", path, count)
				}
			}

			if len(fake.calls) != tt.jobs {
				t.Errorf("converted %d jobs, want %d", len(fake.calls), tt.jobs)
			}

			if last := reporter.last(); last != (progressCall{tt.jobs, tt.jobs}) {
				t.Errorf("last progress = %+v", last)
			}
		})
	}
}

func TestConvertBatch_TrackedInFlightNeverExceedsLimit(t *testing.T) {
	for _, parallel := range []int64{1, 3} {
		fake := new(fakeTranscoder)
		converter, _ := newTestConverter(t, parallel, fake)

		names := make([]string, 0, 20)
		for i := range 20 {
			names = append(names, fmt.Sprintf("track%02d.flac", i))
		}

		for round := range 100 {
			_, state := converter.convertBatch(context.Background(), makeJobs(t.TempDir(), names...))

			if peak := int64(state.maxInFlight()); peak > parallel {
				t.Fatalf("parallel %d, round %d: tracked peak = %d", parallel, round, peak)
			}
		}
	}
}

func TestConvertBatch_DuplicateJob(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeTranscoder{
		hook: func(_ context.Context, job listerDTO.Job) error {
			if job.SourceName == "a.flac" {
				<-release
			}

			return nil
		},
	}
	converter, _ := newTestConverter(t, 2, fake)

	dir := t.TempDir()
	jobs := makeJobs(dir, "a.flac", "a.flac", "b.flac")

	done := make(chan struct{})

	var (
		report *dto.Report
		state  *batchState
	)

	go func() {
		defer close(done)

		report, state = converter.convertBatch(context.Background(), jobs)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	<-done

	failed := report.Failed()
	if len(failed) != 1 || !errors.Is(failed[0].Err, ErrTargetCollision) {
		t.Fatalf("failed = %+v", failed)
	}

	if fake.calls[filepath.Join(dir, "a.flac")] != 1 {
		t.Errorf("a.flac converted %d times", fake.calls[filepath.Join(dir, "a.flac")])
	}

	if state.inFlight() != 0 || state.maxInFlight() > 2 {
		t.Errorf("in flight = %d, peak = %d", state.inFlight(), state.maxInFlight())
	}
}

func TestConvertBatch_ProgressIsMonotonic(t *testing.T) {
	fake := &fakeTranscoder{delay: time.Millisecond}
	converter, reporter := newTestConverter(t, 4, fake)

	dir := t.TempDir()
	report := converter.ConvertBatch(context.Background(), makeJobs(dir, "a.flac", "b.flac", "c.mp3", "d.mp3", "e.flac"))

	if report.Converted() != 5 {
		t.Fatalf("converted = %d, want 5", report.Converted())
	}

	want := []progressCall{{0, 5}, {1, 5}, {2, 5}, {3, 5}, {4, 5}, {5, 5}}
	if !slices.Equal(reporter.calls, want) {
		t.Errorf("progress = %+v, want %+v", reporter.calls, want)
	}
}

func TestConvertBatch_FailureIsIsolated(t *testing.T) {
	fake := new(fakeTranscoder)
	converter, _ := newTestConverter(t, 2, fake)

	dir := t.TempDir()
	report := converter.ConvertBatch(context.Background(), makeJobs(dir, "a.flac", "broken.flac", "c.flac"))

	if report.Succeeded() {
		t.Fatal("batch with a broken file reported success")
	}

	failed := report.Failed()
	if len(failed) != 1 || failed[0].Job.SourceName != "broken.flac" {
		t.Fatalf("failed = %+v", failed)
	}

	if !errors.Is(failed[0].Err, errBroken) {
		t.Errorf("error = %v", failed[0].Err)
	}

	if report.Converted() != 2 {
		t.Errorf("converted = %d, want 2", report.Converted())
	}

	for _, name := range []string{"a.m4a", "c.m4a"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestConvertBatch_TargetCollision(t *testing.T) {
	fake := new(fakeTranscoder)
	converter, reporter := newTestConverter(t, 2, fake)

	dir := t.TempDir()
	report := converter.ConvertBatch(context.Background(), makeJobs(dir, "song.flac", "song.mp3", "other.mp3"))

	failed := report.Failed()
	if len(failed) != 1 {
		t.Fatalf("failed = %+v", failed)
	}

	if failed[0].Job.SourceName != "song.mp3" || !errors.Is(failed[0].Err, ErrTargetCollision) {
		t.Errorf("unexpected failure %s: %v", failed[0].Job.SourceName, failed[0].Err)
	}

	if fake.calls[filepath.Join(dir, "song.mp3")] != 0 {
		t.Error("colliding job reached the transcoder")
	}

	if last := reporter.last(); last != (progressCall{3, 3}) {
		t.Errorf("last progress = %+v", last)
	}
}

func TestConvertBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &fakeTranscoder{
		hook: func(ctx context.Context, job listerDTO.Job) error {
			if job.SourceName != "first.flac" {
				return nil
			}

			cancel()
			<-ctx.Done()

			return ctx.Err()
		},
	}
	converter, reporter := newTestConverter(t, 1, fake)

	dir := t.TempDir()
	report := converter.ConvertBatch(ctx, makeJobs(dir, "first.flac", "second.flac", "third.flac"))

	if len(report.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(report.Results))
	}

	if len(report.Failed()) != 3 {
		t.Fatalf("failed = %d, want 3", len(report.Failed()))
	}

	for _, result := range report.Results {
		if result.Job.SourceName == "first.flac" {
			continue
		}

		if !errors.Is(result.Err, ErrCancelled) {
			t.Errorf("%s: error = %v, want cancelled", result.Job.SourceName, result.Err)
		}

		if fake.calls[result.Job.SourcePath] != 0 {
			t.Errorf("%s started after cancellation", result.Job.SourceName)
		}
	}

	if last := reporter.last(); last != (progressCall{3, 3}) {
		t.Errorf("last progress = %+v", last)
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	converter, reporter := newTestConverter(t, 4, new(fakeTranscoder))

	report := converter.ConvertBatch(context.Background(), nil)

	if !report.Succeeded() || report.Total != 0 {
		t.Errorf("report = %+v", report)
	}

	if len(reporter.calls) != 1 || reporter.calls[0] != (progressCall{0, 0}) {
		t.Errorf("progress = %+v", reporter.calls)
	}
}

func TestConvertDirectory(t *testing.T) {
	fake := new(fakeTranscoder)
	converter, reporter := newTestConverter(t, 3, fake)

	dir := t.TempDir()
	for _, name := range []string{"1.mp3", "2.mp3", "3.mp3", "4.mp3", "5.mp3", "cover.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(dir, "out")

	report, err := converter.ConvertDirectory(context.Background(), dir, out, []string{".mp3"})
	if err != nil {
		t.Fatal(err)
	}

	if report.Total != 5 || report.Converted() != 5 {
		t.Fatalf("total = %d, converted = %d", report.Total, report.Converted())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 5 {
		t.Errorf("output has %d entries, want 5", len(entries))
	}

	if last := reporter.last(); last != (progressCall{5, 5}) {
		t.Errorf("last progress = %+v", last)
	}
}

func TestConvertDirectory_ListingFailure(t *testing.T) {
	converter, _ := newTestConverter(t, 1, new(fakeTranscoder))

	_, err := converter.ConvertDirectory(
		context.Background(), filepath.Join(t.TempDir(), "missing"), "", []string{".flac"},
	)
	if !errors.Is(err, ErrListing) {
		t.Errorf("error = %v, want listing failure", err)
	}
}

func TestConvertFile(t *testing.T) {
	converter, _ := newTestConverter(t, 1, new(fakeTranscoder))

	t.Chdir(t.TempDir())

	result := converter.ConvertFile(context.Background(), listerDTO.NewJob("x.flac", ""))
	if !result.Success || result.TargetPath != "x.m4a" {
		t.Errorf("result = %+v", result)
	}

	result = converter.ConvertFile(context.Background(), listerDTO.NewJob("broken.flac", ""))
	if result.Success || !errors.Is(result.Err, errBroken) {
		t.Errorf("result = %+v", result)
	}
}

func TestConvertFile_TagWarningLoggedOnce(t *testing.T) {
	fake := &fakeTranscoder{tagErr: errors.New("no room for covr atom")}
	converter, _ := newTestConverter(t, 1, fake)

	var logs bytes.Buffer
	converter.app.SetLogOutput(&logs)

	t.Chdir(t.TempDir())

	result := converter.ConvertFile(context.Background(), listerDTO.NewJob("x.flac", ""))
	if !result.Success || result.TagErr == nil {
		t.Fatalf("result = %+v", result)
	}

	if count := strings.Count(logs.String(), "level=warning"); count != 1 {
		t.Errorf("warnings logged = %d, want 1:\n%s", count, logs.String())
	}
}
