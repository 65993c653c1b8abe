// Package config provides the settings store for the image generator.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Credential obfuscation in the stored file
//   - Explicit, copy-on-write updates through Settings.With
//   - Resolving the requested image dimensions
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Saves to ./generated_images
//	// 1:1 ratio, 1024x1024
//
// # Loading from File
//
// Load never fails. A missing or unreadable file yields the defaults, and a
// file with bad values keeps the good ones:
//
//	settings := config.Load(config.DefaultPath())
//
// # Updating
//
// Settings is a value. Edits produce a new value which the caller persists:
//
//	next, err := settings.With(config.FieldAspectRatio, "16:9")
//	if err != nil {
//	    return err
//	}
//	err = config.Save(path, next)
//
// # Credentials
//
// The access key and secret key are base64 encoded in the file. This only
// keeps them from showing up in a plain-text grep. It is NOT encryption and
// offers no protection to anyone who can read the file.
package config
