// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package render

import (
	"net/http"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/go-chi/chi/v5"
)

// Data is what protected endpoint templates see.
type Data struct {
	Principal  auth.Principal
	Path       map[string]string
	Query      map[string]string
	Header     map[string]string
	NowRFC3339 string
}

// sensitive headers never reach templates.
var hiddenHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

func BuildData(r *http.Request, now string) Data {
	path := make(map[string]string)
	query := make(map[string]string)
	header := make(map[string]string)

	if rc := chi.RouteContext(r.Context()); rc != nil {
		for i := range rc.URLParams.Keys {
			key := rc.URLParams.Keys[i]
			val := rc.URLParams.Values[i]
			if key != "" {
				path[key] = val
			}
		}
	}

	for k, vals := range r.URL.Query() {
		if len(vals) > 0 {
			query[k] = vals[0]
		}
	}

	for k, vals := range r.Header {
		if hiddenHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		if len(vals) > 0 {
			header[http.CanonicalHeaderKey(k)] = vals[0]
		}
	}

	p, _ := auth.PrincipalFrom(r.Context())

	return Data{
		Principal:  p,
		Path:       path,
		Query:      query,
		Header:     header,
		NowRFC3339: now,
	}
}
