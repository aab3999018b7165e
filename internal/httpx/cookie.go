// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"net/http"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/config"
)

func sameSite(v string) http.SameSite {
	switch v {
	case config.SameSiteStrict:
		return http.SameSiteStrictMode
	case config.SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func artifactCookie(c config.CookieConfig, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     c.Path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite(c.SameSite),
	}
}

func clearedCookie(c config.CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite(c.SameSite),
	}
}
