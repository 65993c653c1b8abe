package config

import "encoding/base64"

// obfuscate encodes a credential for storage. Base64 is reversible by
// anyone; it is not a security boundary.
func obfuscate(s string) string {
	if s == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// deobfuscate reverses obfuscate. Values that do not decode yield "".
func deobfuscate(s string) string {
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}
