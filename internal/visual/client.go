package visual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/handiism/jimeng-imagegen/internal/model"
	"github.com/volcengine/volc-sdk-golang/base"
)

const (
	// DefaultEndpoint is the public visual API host.
	DefaultEndpoint = "https://visual.volcengineapi.com"

	// DefaultRegion and Service are the signing scope of the visual API.
	DefaultRegion = "cn-north-1"
	Service       = "cv"

	// APIVersion is sent as the Version query parameter.
	APIVersion = "2022-08-31"

	// ReqKey selects the Jimeng text-to-image model.
	ReqKey = "jimeng_t2i_v31"

	// DefaultSeed is the fixed seed sent with every submission.
	DefaultSeed = -5

	// SuccessCode is the response code of an accepted call.
	SuccessCode = 10000

	actionSubmit    = "CVSync2AsyncSubmitTask"
	actionGetResult = "CVSync2AsyncGetResult"

	// watermarkText is sent with add_logo disabled; the service requires the field.
	watermarkText = "这里是明水印内容"
)

// Client talks to the visual async task API.
//
// Client provides:
//   - AK/SK request signing
//   - JSON encoding of the submit and result calls
//   - Mapping of response codes and status strings
//
// A Client is safe for concurrent use but holds no per-task state.
type Client struct {
	httpClient *http.Client
	endpoint   string
	creds      base.Credentials
	reqKey     string
	seed       int
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint points the client at another host, such as a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSeed overrides DefaultSeed.
func WithSeed(seed int) Option {
	return func(c *Client) { c.seed = seed }
}

// WithRegion overrides the signing region.
func WithRegion(region string) Option {
	return func(c *Client) { c.creds.Region = region }
}

// NewClient creates a client signing with the given access key and secret key.
//
// The client is configured with:
//   - 60 second timeout
//   - DefaultEndpoint, DefaultRegion and DefaultSeed
func NewClient(accessKey, secretKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   DefaultEndpoint,
		creds: base.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			Service:         Service,
			Region:          DefaultRegion,
		},
		reqKey: ReqKey,
		seed:   DefaultSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends a text-to-image task and returns its task id.
//
// The call succeeds only when the service answers with SuccessCode and a
// non-empty task id. Anything else is a *model.APIError whose Raw field holds
// the response body.
func (c *Client) Submit(ctx context.Context, prompt string, width, height int) (string, error) {
	req := submitRequest{
		ReqKey: c.reqKey,
		Prompt: prompt,
		Seed:   c.seed,
		Width:  width,
		Height: height,
	}

	env, raw, err := c.call(ctx, actionSubmit, req)
	if err != nil {
		return "", err
	}

	var data submitData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", &model.APIError{Op: "submit", Code: env.Code, Message: "malformed data", Raw: string(raw)}
		}
	}
	if data.TaskID == "" {
		return "", &model.APIError{Op: "submit", Code: env.Code, Message: "response has no task id", Raw: string(raw)}
	}
	return data.TaskID, nil
}

// Poll fetches the status of a task, asking for watermark-free direct URLs.
//
// The returned status maps "pending", "processing", "done" and "failed";
// any other string comes back as model.StateUnknown with Raw set.
// ImageURLs is filled only for "done".
func (c *Client) Poll(ctx context.Context, taskID string) (model.JobStatus, error) {
	opts, err := json.Marshal(resultOptions{
		LogoInfo: logoInfo{
			AddLogo:         false,
			Position:        0,
			Language:        0,
			Opacity:         0.3,
			LogoTextContent: watermarkText,
		},
		ReturnURL: true,
	})
	if err != nil {
		return model.JobStatus{}, fmt.Errorf("encode result options: %w", err)
	}

	req := resultRequest{
		ReqKey:  c.reqKey,
		TaskID:  taskID,
		ReqJSON: string(opts),
	}

	env, raw, err := c.call(ctx, actionGetResult, req)
	if err != nil {
		return model.JobStatus{}, err
	}

	var data resultData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return model.JobStatus{}, &model.APIError{Op: "poll", Code: env.Code, Message: "malformed data", Raw: string(raw)}
		}
	}

	status := model.JobStatus{
		State: model.ParseJobState(data.Status),
		Raw:   data.Status,
	}
	if status.State == model.StateDone {
		status.ImageURLs = data.ImageURLs
	}
	return status, nil
}

// call posts body to action and decodes the response envelope. It returns
// an error unless the envelope carries SuccessCode.
func (c *Client) call(ctx context.Context, action string, body any) (*envelope, []byte, error) {
	op := opName(action)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	query := url.Values{}
	query.Set("Action", action)
	query.Set("Version", APIVersion)
	target := c.endpoint + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = c.creds.Sign(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &model.NetworkError{Op: op, URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &model.NetworkError{Op: op, URL: c.endpoint, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, raw, &model.APIError{
			Op:      op,
			Code:    resp.StatusCode,
			Message: "unreadable response (HTTP " + resp.Status + ")",
			Raw:     string(raw),
		}
	}
	if env.Code != SuccessCode {
		return nil, raw, &model.APIError{Op: op, Code: env.Code, Message: env.Message, Raw: string(raw)}
	}
	return &env, raw, nil
}

func opName(action string) string {
	if action == actionSubmit {
		return "submit"
	}
	return "poll"
}
