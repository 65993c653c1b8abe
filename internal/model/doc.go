// Package model defines the core data structures shared by the image
// generator: aspect ratios, generation jobs, poll statuses, download
// results and the error taxonomy.
//
// # Aspect Ratio
//
// AspectRatio names one of the predefined output shapes or RatioCustom:
//
//	w, h := model.Ratio16x9.Dimensions() // 1024, 576
//
// # Job
//
// Job tracks one remote generation request from submission to a terminal
// status. Dimensions are fixed when the job is created and the task id can
// be assigned exactly once:
//
//	job := model.NewJob(prompt, 1024, 1024)
//	if err := job.AssignTaskID(taskID); err != nil {
//	    return err
//	}
//	job.Apply(status)
//	fmt.Println(job.FileName(0)) // "<taskID>_0.jpg"
//
// # Errors
//
// ValidationError, APIError, NetworkError, TimeoutError and IOError are
// matched with errors.As. KindOf reports which family an error belongs to.
package model
