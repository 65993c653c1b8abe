package visual

import "encoding/json"

// submitRequest is the body of CVSync2AsyncSubmitTask.
type submitRequest struct {
	ReqKey string `json:"req_key"`
	Prompt string `json:"prompt"`
	Seed   int    `json:"seed"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// resultRequest is the body of CVSync2AsyncGetResult. ReqJSON is itself a
// JSON document encoded as a string.
type resultRequest struct {
	ReqKey  string `json:"req_key"`
	TaskID  string `json:"task_id"`
	ReqJSON string `json:"req_json"`
}

// resultOptions is encoded into resultRequest.ReqJSON.
type resultOptions struct {
	LogoInfo  logoInfo `json:"logo_info"`
	ReturnURL bool     `json:"return_url"`
}

// logoInfo controls the visible watermark.
type logoInfo struct {
	AddLogo         bool    `json:"add_logo"`
	Position        int     `json:"position"`
	Language        int     `json:"language"`
	Opacity         float64 `json:"opacity"`
	LogoTextContent string  `json:"logo_text_content"`
}

// envelope is the common response wrapper.
type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

type submitData struct {
	TaskID string `json:"task_id"`
}

type resultData struct {
	Status    string   `json:"status"`
	ImageURLs []string `json:"image_urls"`
}
