package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/jimeng-imagegen/internal/model"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.OutputDirectory != DefaultOutputDirectory {
		t.Errorf("OutputDirectory = %q, want %q", s.OutputDirectory, DefaultOutputDirectory)
	}
	if s.AspectRatio != model.Ratio1x1 {
		t.Errorf("AspectRatio = %q, want 1:1", s.AspectRatio)
	}
	if w, h := s.Dimensions(); w != 1024 || h != 1024 {
		t.Errorf("Dimensions() = %dx%d, want 1024x1024", w, h)
	}
	if s.HasCredentials() {
		t.Error("defaults should not carry credentials")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cases := []Settings{
		DefaultSettings(),
		{
			AccessKey:       "AKLTexampleaccesskey",
			SecretKey:       "secret/with+base64=chars==",
			OutputDirectory: "/tmp/images",
			AspectRatio:     model.Ratio16x9,
			CustomWidth:     1024,
			CustomHeight:    1024,
		},
		{
			AccessKey:       "密钥",
			SecretKey:       "  padded  ",
			OutputDirectory: "out dir",
			AspectRatio:     model.RatioCustom,
			CustomWidth:     640,
			CustomHeight:    1920,
		},
	}

	for _, ext := range []string{".json", ".yaml"} {
		for i, want := range cases {
			path := filepath.Join(t.TempDir(), "nested", "config"+ext)
			if err := Save(path, want); err != nil {
				t.Fatalf("Save(%s #%d): %v", ext, i, err)
			}
			got := Load(path)
			if got != want {
				t.Errorf("%s #%d: Load(Save(s)) = %+v, want %+v", ext, i, got, want)
			}
		}
	}
}

func TestSave_ObfuscatesCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := DefaultSettings()
	s.AccessKey = "plain-access-key"
	s.SecretKey = "plain-secret-key"

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if strings.Contains(content, "plain-access-key") || strings.Contains(content, "plain-secret-key") {
		t.Errorf("credentials stored in plain text:\n%s", content)
	}
	for _, key := range []string{`"ak"`, `"sk"`, `"save_dir"`, `"aspect_ratio"`, `"custom_width"`, `"custom_height"`} {
		if !strings.Contains(content, key) {
			t.Errorf("saved file missing key %s", key)
		}
	}
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	first := DefaultSettings()
	second := DefaultSettings()
	second.OutputDirectory = "elsewhere"

	if err := Save(path, first); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, second); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); got.OutputDirectory != "elsewhere" {
		t.Errorf("OutputDirectory = %q after overwrite", got.OutputDirectory)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the settings file, found %d entries", len(entries))
	}
}

func TestSave_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Save(filepath.Join(blocker, "config.json"), DefaultSettings())
	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Save error = %v, want *model.IOError", err)
	}
}

func TestLoad_Fallbacks(t *testing.T) {
	defaults := DefaultSettings()

	tests := []struct {
		name    string
		file    string
		content string
		want    func(Settings) Settings
	}{
		{
			name: "missing file",
			file: "absent.json",
			want: func(s Settings) Settings { return s },
		},
		{
			name:    "corrupt json",
			file:    "config.json",
			content: `{"ak": "QUs=", "save_dir": `,
			want:    func(s Settings) Settings { return s },
		},
		{
			name:    "empty object",
			file:    "config.json",
			content: `{}`,
			want:    func(s Settings) Settings { return s },
		},
		{
			name:    "partial record",
			file:    "config.json",
			content: `{"save_dir": "/data/out", "unknown": true}`,
			want: func(s Settings) Settings {
				s.OutputDirectory = "/data/out"
				return s
			},
		},
		{
			name:    "legacy string sizes and label",
			file:    "config.json",
			content: `{"aspect_ratio": "自定义", "custom_width": "800", "custom_height": "300"}`,
			want: func(s Settings) Settings {
				s.AspectRatio = model.RatioCustom
				s.CustomWidth = 800
				s.CustomHeight = 500
				return s
			},
		},
		{
			name:    "bad values fall back per field",
			file:    "config.json",
			content: `{"aspect_ratio": "7:5", "custom_width": "wide", "custom_height": 700, "sk": 12}`,
			want: func(s Settings) Settings {
				s.CustomHeight = 700
				return s
			},
		},
		{
			name:    "undecodable credential",
			file:    "config.json",
			content: `{"ak": "not base64!!", "sk": "c2s="}`,
			want: func(s Settings) Settings {
				s.SecretKey = "sk"
				return s
			},
		},
		{
			name:    "yaml",
			file:    "config.yml",
			content: "ak: YWs=\nsave_dir: pics\naspect_ratio: \"9:16\"\n",
			want: func(s Settings) Settings {
				s.AccessKey = "ak"
				s.OutputDirectory = "pics"
				s.AspectRatio = model.Ratio9x16
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			got := Load(path)
			want := tt.want(defaults)
			if got != want {
				t.Errorf("Load() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestSettings_With(t *testing.T) {
	base := DefaultSettings()

	s, err := base.With(FieldAccessKey, "ak")
	if err != nil || s.AccessKey != "ak" {
		t.Fatalf("With(ak) = %+v, %v", s, err)
	}
	if base.AccessKey != "" {
		t.Error("With mutated the receiver")
	}

	s, err = s.With(FieldAspectRatio, "16:9")
	if err != nil {
		t.Fatal(err)
	}
	if w, h := s.Dimensions(); w != 1024 || h != 576 {
		t.Errorf("16:9 dimensions = %dx%d", w, h)
	}

	s, err = s.With(FieldAspectRatio, "custom")
	if err != nil {
		t.Fatal(err)
	}
	s, _ = s.With(FieldCustomWidth, "320")
	s, _ = s.With(FieldCustomHeight, " 1500 ")
	if w, h := s.Dimensions(); w != 500 || h != 1500 {
		t.Errorf("custom dimensions = %dx%d, want 500x1500", w, h)
	}

	unchanged, err := s.With(FieldCustomWidth, "12.5")
	if err == nil {
		t.Error("expected error for non-integer width")
	}
	if unchanged != s {
		t.Error("failed update should return the original settings")
	}

	if _, err := s.With(FieldAspectRatio, "1:2"); err == nil {
		t.Error("expected error for unknown ratio")
	}
	if _, err := s.With(Field("theme"), "dark"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestObfuscate(t *testing.T) {
	for _, v := range []string{"", "a", "AKLT1234", "秘密"} {
		if got := deobfuscate(obfuscate(v)); got != v {
			t.Errorf("deobfuscate(obfuscate(%q)) = %q", v, got)
		}
	}
	if got := deobfuscate("%%%"); got != "" {
		t.Errorf("deobfuscate of invalid input = %q, want empty", got)
	}
}
