// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package render

import (
	"bytes"
	"encoding/json"
	"text/template"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"json": toJSON,
		// default returns def when v is nil or an empty string.
		"default": func(def string, v any) any {
			if v == nil {
				return def
			}
			if s, ok := v.(string); ok && s == "" {
				return def
			}
			return v
		},
	}
}

// toJSON encodes v without HTML escaping; payloads are not HTML.
func toJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
