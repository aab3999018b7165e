// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"text/template"
	"time"
)

// Renderer executes text templates. Payloads are JSON or plain text, so
// html/template escaping would corrupt them.
type Renderer struct {
	mu     sync.RWMutex
	tpls   map[string]cachedTpl
	inline map[string]*template.Template
}

type cachedTpl struct {
	tpl   *template.Template
	mtime time.Time
}

func New() *Renderer {
	return &Renderer{
		tpls:   make(map[string]cachedTpl),
		inline: make(map[string]*template.Template),
	}
}

// Missing map keys render as the zero value, so an absent query parameter
// or header becomes "" instead of "<no value>".
func parse(name, src string) (*template.Template, error) {
	return template.New(name).Funcs(Funcs()).Option("missingkey=zero").Parse(src)
}

// Compile parses src once and caches it for RenderString.
func (r *Renderer) Compile(src string) error {
	_, err := r.inlineTpl(src)
	return err
}

func (r *Renderer) inlineTpl(src string) (*template.Template, error) {
	r.mu.RLock()
	tpl, ok := r.inline[src]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := parse("inline", src)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.inline[src] = tpl
	r.mu.Unlock()

	return tpl, nil
}

func (r *Renderer) RenderString(tplSrc string, data any) ([]byte, error) {
	tpl, err := r.inlineTpl(tplSrc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	abs, _ := filepath.Abs(path)
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	ct, ok := r.tpls[abs]
	r.mu.RUnlock()

	if !ok || ct.mtime.Before(info.ModTime()) {
		src, err := os.ReadFile(abs)
		if err != nil {
			return nil, err
		}

		tpl, err := parse(filepath.Base(abs), string(src))
		if err != nil {
			return nil, err
		}

		ct = cachedTpl{tpl: tpl, mtime: info.ModTime()}

		r.mu.Lock()
		r.tpls[abs] = ct
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := ct.tpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
