package configutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeSettings decodes a free-form settings map into a typed struct.
// Keys match struct fields case-insensitively with underscores and dashes
// stripped, so "api_key", "apikey" and "API-Key" all hit the same field.
func DecodeSettings(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	cfg := &mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ExpandSettings resolves ${VAR} references in string values against the
// process environment. Non-string values pass through untouched.
func ExpandSettings(settings map[string]any) map[string]any {
	if len(settings) == 0 {
		return settings
	}
	out := make(map[string]any, len(settings))
	for key, value := range settings {
		if s, ok := value.(string); ok {
			out[key] = os.ExpandEnv(s)
			continue
		}
		out[key] = value
	}
	return out
}

// RequireString ensures a value is present for a required config field.
func RequireString(value, path string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", path)
	}
	return nil
}

func normalizeKey(value string) string {
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}
