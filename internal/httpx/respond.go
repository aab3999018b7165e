// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"encoding/json"
	"net/http"
)

const (
	msgLoginOK          = "Login successful"
	msgLogoutOK         = "Logged out successfully"
	msgInvalidCreds     = "Invalid credentials"
	msgUnauthorized     = "Unauthorized"
	msgNoSession        = "No active session"
	msgInternal         = "Internal server error"
	msgBadRequest       = "Invalid request body"
	msgUnsupportedMedia = "Unsupported media type"
)

type messageBody struct {
	Message string `json:"message"`
}

type loginBody struct {
	Message   string `json:"message"`
	Artifact  string `json:"artifact,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type sessionBody struct {
	Principal principalBody `json:"principal"`
	ExpiresAt string        `json:"expiresAt"`
}

type principalBody struct {
	Username string `json:"username"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	// Auth responses carry artifacts or identity.
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}
