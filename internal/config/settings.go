package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/handiism/jimeng-imagegen/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultOutputDirectory is where images are saved when nothing is configured.
const DefaultOutputDirectory = "generated_images"

// DefaultPrompt is offered by the front ends as a starting prompt.
const DefaultPrompt = "标题：试错，副标题：才是产品经理的常态，特写：一个产品经理正在思考那些犯过的错，背景：各种PPT、图表、报表，要求：背景模糊处理，标题清晰醒目，用海报设计字体"

// Field identifies one editable setting. The values double as the keys used
// in the settings file.
type Field string

const (
	FieldAccessKey       Field = "ak"
	FieldSecretKey       Field = "sk"
	FieldOutputDirectory Field = "save_dir"
	FieldAspectRatio     Field = "aspect_ratio"
	FieldCustomWidth     Field = "custom_width"
	FieldCustomHeight    Field = "custom_height"
)

// Settings holds the user's configuration.
//
// Settings is used by value. Nothing in this package mutates a Settings in
// place; With returns an updated copy.
type Settings struct {
	// Credentials for the generation service.
	AccessKey string
	SecretKey string

	// OutputDirectory receives the downloaded images.
	OutputDirectory string

	// Image size selection
	AspectRatio  model.AspectRatio
	CustomWidth  int // used only with model.RatioCustom, at least model.MinDimension
	CustomHeight int
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		OutputDirectory: DefaultOutputDirectory,
		AspectRatio:     model.Ratio1x1,
		CustomWidth:     model.DefaultDimension,
		CustomHeight:    model.DefaultDimension,
	}
}

// DefaultPath returns the settings file location under the user config
// directory, or config.json in the working directory when that is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "config.json"
	}
	return filepath.Join(dir, "jimeng-imagegen", "config.json")
}

// Dimensions returns the width and height to request for these settings.
func (s Settings) Dimensions() (width, height int) {
	return model.ResolveDimensions(s.AspectRatio, s.CustomWidth, s.CustomHeight)
}

// HasCredentials reports whether both keys are non-blank.
func (s Settings) HasCredentials() bool {
	return strings.TrimSpace(s.AccessKey) != "" && strings.TrimSpace(s.SecretKey) != ""
}

// With returns a copy of s with field set from its textual value.
//
// Sizes must be integers and are raised to model.MinDimension. Ratios must be
// one of model.AspectRatios. On error the returned Settings equals s.
//
// Example:
//
//	s, err := s.With(FieldCustomWidth, "1280")
func (s Settings) With(field Field, value string) (Settings, error) {
	next := s
	switch field {
	case FieldAccessKey:
		next.AccessKey = value
	case FieldSecretKey:
		next.SecretKey = value
	case FieldOutputDirectory:
		next.OutputDirectory = value
	case FieldAspectRatio:
		r, ok := model.ParseAspectRatio(strings.TrimSpace(value))
		if !ok {
			return s, fmt.Errorf("unknown aspect ratio %q", value)
		}
		next.AspectRatio = r
	case FieldCustomWidth, FieldCustomHeight:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return s, fmt.Errorf("%s must be a whole number: %q", field, value)
		}
		if field == FieldCustomWidth {
			next.CustomWidth = model.ClampDimension(n)
		} else {
			next.CustomHeight = model.ClampDimension(n)
		}
	default:
		return s, fmt.Errorf("unknown settings field %q", field)
	}
	return next, nil
}

// record is the on-disk shape of Settings.
type record struct {
	AccessKey    string `json:"ak" yaml:"ak"`
	SecretKey    string `json:"sk" yaml:"sk"`
	SaveDir      string `json:"save_dir" yaml:"save_dir"`
	AspectRatio  string `json:"aspect_ratio" yaml:"aspect_ratio"`
	CustomWidth  int    `json:"custom_width" yaml:"custom_width"`
	CustomHeight int    `json:"custom_height" yaml:"custom_height"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads settings from a JSON or YAML file, chosen by extension.
//
// Load never fails. A missing file or one that cannot be parsed yields
// DefaultSettings. Absent fields, and fields holding values of the wrong
// type, fall back to their defaults one by one. Unknown fields are ignored.
// Sizes may be stored as numbers or numeric strings.
func Load(path string) Settings {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings
	}

	raw := map[string]any{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return settings
	}

	if v, ok := stringField(raw, FieldAccessKey); ok {
		settings.AccessKey = deobfuscate(v)
	}
	if v, ok := stringField(raw, FieldSecretKey); ok {
		settings.SecretKey = deobfuscate(v)
	}
	if v, ok := stringField(raw, FieldOutputDirectory); ok && v != "" {
		settings.OutputDirectory = v
	}
	if v, ok := stringField(raw, FieldAspectRatio); ok {
		if r, ok := model.ParseAspectRatio(v); ok {
			settings.AspectRatio = r
		}
	}
	if n, ok := intField(raw, FieldCustomWidth); ok {
		settings.CustomWidth = model.ClampDimension(n)
	}
	if n, ok := intField(raw, FieldCustomHeight); ok {
		settings.CustomHeight = model.ClampDimension(n)
	}

	return settings
}

func stringField(raw map[string]any, f Field) (string, bool) {
	s, ok := raw[string(f)].(string)
	return s, ok
}

func intField(raw map[string]any, f Field) (int, bool) {
	switch v := raw[string(f)].(type) {
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Save writes the full settings record to path, replacing any existing file.
//
// The record is written to a temporary file in the same directory and renamed
// into place, so readers never see a partial file. The parent directory is
// created if needed. Failures are *model.IOError.
func Save(path string, s Settings) error {
	rec := record{
		AccessKey:    obfuscate(s.AccessKey),
		SecretKey:    obfuscate(s.SecretKey),
		SaveDir:      s.OutputDirectory,
		AspectRatio:  string(s.AspectRatio),
		CustomWidth:  s.CustomWidth,
		CustomHeight: s.CustomHeight,
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(rec)
	} else {
		data, err = json.MarshalIndent(rec, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &model.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return &model.IOError{Op: "create", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &model.IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &model.IOError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return &model.IOError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &model.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
