package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// JobPhase is the lifecycle position of a Job.
type JobPhase string

const (
	PhaseSubmitted  JobPhase = "submitted"
	PhasePending    JobPhase = "pending"
	PhaseProcessing JobPhase = "processing"
	PhaseDone       JobPhase = "done"
	PhaseFailed     JobPhase = "failed"
	PhaseTimedOut   JobPhase = "timedOut"
)

// IsTerminal reports whether no further transitions are allowed.
func (p JobPhase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed || p == PhaseTimedOut
}

// ErrTaskIDAssigned is returned when a Job already carries a task id.
var ErrTaskIDAssigned = errors.New("task id already assigned")

// Job represents one remote image-generation request.
//
// Width and Height are resolved once by NewJob and never change. TaskID is
// empty until the service accepts the submission; after that it is fixed and
// prefixes every file written for the job.
//
// Example:
//
//	job := NewJob("a red fox in snow", 1024, 576)
//	_ = job.AssignTaskID("7392616336519610409")
//	job.Apply(JobStatus{State: StateDone, ImageURLs: urls})
//	// job.Phase == PhaseDone, job.ImageURLs == urls
type Job struct {
	Prompt string
	Width  int
	Height int

	// TaskID is the identifier returned by the submit call.
	TaskID string

	// Phase moves forward only through Apply and MarkTimedOut.
	Phase JobPhase

	// ImageURLs is filled when the job reaches PhaseDone, in service order.
	ImageURLs []string
}

// NewJob creates a Job in PhaseSubmitted with fixed dimensions.
func NewJob(prompt string, width, height int) *Job {
	return &Job{
		Prompt: prompt,
		Width:  width,
		Height: height,
		Phase:  PhaseSubmitted,
	}
}

// AssignTaskID sets the task id. It fails for an empty id or when an id is
// already present.
func (j *Job) AssignTaskID(id string) error {
	if j.TaskID != "" {
		return fmt.Errorf("%w: %s", ErrTaskIDAssigned, j.TaskID)
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("empty task id")
	}
	j.TaskID = id
	return nil
}

// Apply moves the job according to one poll response. Statuses arriving after
// a terminal phase are ignored. Unknown states leave the phase unchanged.
func (j *Job) Apply(status JobStatus) {
	if j.Phase.IsTerminal() {
		return
	}
	switch status.State {
	case StatePending:
		j.Phase = PhasePending
	case StateProcessing:
		j.Phase = PhaseProcessing
	case StateDone:
		j.Phase = PhaseDone
		j.ImageURLs = append([]string(nil), status.ImageURLs...)
	case StateFailed:
		j.Phase = PhaseFailed
		j.ImageURLs = nil
	}
}

// MarkTimedOut ends a job whose poll budget ran out.
func (j *Job) MarkTimedOut() {
	if !j.Phase.IsTerminal() {
		j.Phase = PhaseTimedOut
	}
}

// FileName returns the artifact name for the image at index:
// "{taskId}_{index}.jpg", with the task id made safe for file systems.
func (j *Job) FileName(index int) string {
	return fmt.Sprintf("%s_%d.jpg", sanitizeFileName(j.TaskID), index)
}

// DownloadResult is the outcome of fetching and saving one image.
type DownloadResult struct {
	URL       string
	LocalPath string
	Success   bool

	// Error is empty on success.
	Error string
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes characters that are invalid in file names.
func sanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
