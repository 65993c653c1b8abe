package generate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/jimeng-imagegen/internal/config"
	"github.com/handiism/jimeng-imagegen/internal/http"
	ioutils "github.com/handiism/jimeng-imagegen/internal/io"
	"github.com/handiism/jimeng-imagegen/internal/model"
	"github.com/handiism/jimeng-imagegen/internal/visual"
)

const (
	// DefaultMaxAttempts is how many times a task is polled before giving up.
	DefaultMaxAttempts = 20

	// DefaultPollInterval is the fixed pause between two polls.
	DefaultPollInterval = 5 * time.Second
)

var (
	// ErrTaskFailed is the reason reported when the service marks a task failed.
	ErrTaskFailed = errors.New("generation task failed")

	// ErrNoImages is the reason reported when a task finishes without URLs.
	ErrNoImages = errors.New("task finished without image URLs")
)

// JobClient submits and polls generation tasks. *visual.Client implements it.
type JobClient interface {
	Submit(ctx context.Context, prompt string, width, height int) (string, error)
	Poll(ctx context.Context, taskID string) (model.JobStatus, error)
}

// Fetcher downloads one resource. *http.Client implements it.
type Fetcher interface {
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// ClientFactory builds a JobClient for a pair of credentials.
type ClientFactory func(accessKey, secretKey string) JobClient

// Options configures a Workflow. Zero values select the defaults.
type Options struct {
	// MaxAttempts bounds the number of poll calls. Default 20.
	MaxAttempts int

	// PollInterval is the pause between polls. Default 5s.
	PollInterval time.Duration

	// NewClient builds the job client once credentials are validated.
	// Default: visual.NewClient.
	NewClient ClientFactory

	// Fetcher downloads images. Default: http.NewClient().
	Fetcher Fetcher

	// Images normalises downloads to JPEG. Default: ioutils.NewImageService().
	Images *ioutils.ImageService

	// Now stamps events. Default: time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.NewClient == nil {
		o.NewClient = func(ak, sk string) JobClient { return visual.NewClient(ak, sk) }
	}
	if o.Fetcher == nil {
		o.Fetcher = http.NewClient()
	}
	if o.Images == nil {
		o.Images = ioutils.NewImageService()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Outcome is the terminal result of a run.
type Outcome struct {
	RunID string

	// State is StateCompleted or StateFailed.
	State State

	// Job is nil when the run failed validation.
	Job *model.Job

	// Results has one entry per returned image URL, in order.
	Results []model.DownloadResult

	// Saved counts the successful entries in Results.
	Saved int

	// Err is the failure reason; nil when State is StateCompleted.
	Err error
}

// Workflow drives one generation run. Create a new Workflow per run.
type Workflow struct {
	opts    Options
	runID   string
	state   State
	onEvent func(Event)
}

// NewWorkflow creates a Workflow in StateIdle. onEvent may be nil; when set it
// is called synchronously, in order, for every event of the run.
func NewWorkflow(opts Options, onEvent func(Event)) *Workflow {
	return &Workflow{
		opts:    opts.withDefaults(),
		runID:   uuid.NewString(),
		state:   StateIdle,
		onEvent: onEvent,
	}
}

// RunID identifies this run in events and logs.
func (w *Workflow) RunID() string { return w.runID }

// State returns the current state. It is not safe to call concurrently with Run.
func (w *Workflow) State() State { return w.state }

// Run executes the whole workflow and returns its outcome. Settings are read
// once here and never modified.
//
// Run blocks for as long as the remote job takes; call it from a background
// goroutine (see Executor). ctx only stops the run on process shutdown.
func (w *Workflow) Run(ctx context.Context, settings config.Settings, prompt string) Outcome {
	out := Outcome{RunID: w.runID}

	accessKey := strings.TrimSpace(settings.AccessKey)
	secretKey := strings.TrimSpace(settings.SecretKey)
	prompt = strings.TrimSpace(prompt)

	if accessKey == "" || secretKey == "" {
		return w.fail(out, &model.ValidationError{Field: "credentials", Message: "access key and secret key are required"})
	}
	if prompt == "" {
		return w.fail(out, &model.ValidationError{Field: "prompt", Message: "prompt is empty"})
	}

	client := w.opts.NewClient(accessKey, secretKey)

	// Submitting
	width, height := settings.Dimensions()
	job := model.NewJob(prompt, width, height)
	out.Job = job

	w.transition(StateSubmitting)
	w.emit(LevelInfo, "Submitting generation task (size: %d×%d)", width, height)

	taskID, err := client.Submit(ctx, prompt, width, height)
	if err != nil {
		return w.fail(out, fmt.Errorf("submit: %w", err))
	}
	if err := job.AssignTaskID(taskID); err != nil {
		return w.fail(out, fmt.Errorf("submit: %w", err))
	}
	w.emit(LevelInfo, "Task submitted, ID: %s", taskID)

	// Polling
	w.transition(StatePolling)
	urls, err := w.poll(ctx, client, job)
	if err != nil {
		return w.fail(out, err)
	}

	// Downloading
	w.transition(StateDownloading)
	out.Results = w.download(ctx, settings.OutputDirectory, job, urls)
	for _, r := range out.Results {
		if r.Success {
			out.Saved++
		}
	}

	w.transition(StateCompleted)
	level := LevelSuccess
	if out.Saved < len(urls) {
		level = LevelWarning
	}
	w.emit(level, "Saved %d of %d images", out.Saved, len(urls))

	out.State = StateCompleted
	return out
}

// poll repeats Poll until the task is terminal or the attempt budget is spent.
func (w *Workflow) poll(ctx context.Context, client JobClient, job *model.Job) ([]string, error) {
	maxAttempts := w.opts.MaxAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		w.emit(LevelVerbose, "Querying result (%d/%d)...", attempt, maxAttempts)

		status, err := client.Poll(ctx, job.TaskID)
		if err != nil {
			return nil, fmt.Errorf("poll: %w", err)
		}
		job.Apply(status)

		switch status.State {
		case model.StateDone:
			if len(job.ImageURLs) == 0 {
				return nil, ErrNoImages
			}
			w.emit(LevelInfo, "Task finished with %d image(s)", len(job.ImageURLs))
			return job.ImageURLs, nil
		case model.StateFailed:
			return nil, ErrTaskFailed
		case model.StatePending, model.StateProcessing:
			w.emit(LevelInfo, "Task in progress, status: %s", status.State)
		default:
			w.emit(LevelWarning, "Unknown status: %s", status.Raw)
		}

		if attempt < maxAttempts {
			if err := w.wait(ctx); err != nil {
				return nil, err
			}
		}
	}

	job.MarkTimedOut()
	return nil, &model.TimeoutError{TaskID: job.TaskID, Attempts: maxAttempts}
}

// download saves every URL in order. Failures are recorded and logged but do
// not stop the remaining downloads.
func (w *Workflow) download(ctx context.Context, dir string, job *model.Job, urls []string) []model.DownloadResult {
	if err := ioutils.EnsureDir(dir); err != nil {
		w.emit(LevelError, "Cannot create output directory: %v", err)
	}

	results := make([]model.DownloadResult, 0, len(urls))
	for i, url := range urls {
		result := model.DownloadResult{
			URL:       url,
			LocalPath: filepath.Join(dir, job.FileName(i)),
		}

		w.emit(LevelInfo, "Downloading image %d/%d: %s", i+1, len(urls), url)
		if err := w.saveImage(ctx, url, result.LocalPath); err != nil {
			result.Error = err.Error()
			w.emit(LevelError, "Image %d failed: %v", i+1, err)
		} else {
			result.Success = true
			w.emit(LevelSuccess, "Image saved to: %s", result.LocalPath)
		}
		results = append(results, result)
	}
	return results
}

func (w *Workflow) saveImage(ctx context.Context, url, path string) error {
	data, err := w.opts.Fetcher.DownloadBytes(ctx, url)
	if err != nil {
		return err
	}

	jpg, converted, err := w.opts.Images.NormalizeJPEG(ctx, data)
	switch {
	case err != nil:
		w.emit(LevelWarning, "Keeping original bytes, JPEG conversion failed: %v", err)
	case converted:
		w.emit(LevelVerbose, "Converted image to JPEG")
		data = jpg
	}

	return ioutils.WriteFile(ctx, path, data)
}

func (w *Workflow) wait(ctx context.Context) error {
	timer := time.NewTimer(w.opts.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Workflow) transition(s State) {
	w.state = s
	w.emit(LevelVerbose, "State: %s", s)
}

func (w *Workflow) fail(out Outcome, err error) Outcome {
	w.state = StateFailed
	w.emit(LevelError, "Generation failed: %v", err)
	out.State = StateFailed
	out.Err = err
	return out
}

func (w *Workflow) emit(level ProgressLevel, format string, args ...any) {
	if w.onEvent == nil {
		return
	}
	w.onEvent(Event{
		Time:    w.opts.Now(),
		RunID:   w.runID,
		State:   w.state,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
