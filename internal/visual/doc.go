// Package visual is a client for the Volcengine visual (Jimeng) async task API.
//
// The service works in two steps. Submit sends a text-to-image request and
// returns a task id. Poll asks for the task's status and, once it is done,
// the URLs of the generated images:
//
//	client := visual.NewClient(accessKey, secretKey)
//
//	taskID, err := client.Submit(ctx, "a lighthouse at dusk", 1024, 576)
//	if err != nil {
//	    return err
//	}
//
//	status, err := client.Poll(ctx, taskID)
//	if status.State == model.StateDone {
//	    fmt.Println(status.ImageURLs)
//	}
//
// Requests are signed with the account's access key and secret key. The
// client does not retry; callers decide how often to poll.
//
// Errors are *model.APIError when the service answers with anything other
// than code 10000, and *model.NetworkError when the request cannot be made.
package visual
