// Package generate runs the submit → poll → download workflow that turns a
// prompt into image files on disk.
//
// # Workflow
//
// A Workflow is a small state machine, used once per run:
//
//		Idle → Submitting → Polling → Downloading → Completed
//		  └────────┴───────────┴───────────┴──────→ Failed
//
//	 1. Validate credentials and prompt (no network before this passes)
//	 2. Submit the task and keep its id
//	 3. Poll up to MaxAttempts times, PollInterval apart
//	 4. Download every returned image in order, saving {taskId}_{index}.jpg
//
// A failed image download is logged and skipped; the run still completes
// with the images that were saved.
//
// # Running in the Background
//
// Front ends should not call Run on their own goroutine. The Executor hands
// each run to a background worker and reports progress through a sink:
//
//	exec := generate.NewExecutor(generate.Options{})
//	h := exec.Start(ctx, settings, prompt, func(ev generate.Event) {
//	    fmt.Println(ev.Time.Format("15:04:05"), ev.Message)
//	})
//	outcome := h.Wait()
//
// Stream delivers the same events over a channel, which suits Bubble Tea
// commands.
//
// # Events
//
// Every log line is an Event carrying a timestamp, the run id, the workflow
// state and a ProgressLevel (Info, Verbose, Warning, Error, Success). Events
// are delivered in the order the operations complete.
package generate
