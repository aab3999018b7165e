// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package errx

import (
	"errors"
	"fmt"
)

// Collector gathers validation failures so a config can report every
// problem in one pass instead of stopping at the first.
type Collector struct {
	errs []error
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

func (c *Collector) Wrapf(sentinel error, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}

func (c *Collector) If(cond bool, sentinel error, format string, args ...any) {
	if cond {
		c.Wrapf(sentinel, format, args...)
	}
}

func (c *Collector) Len() int {
	return len(c.errs)
}

func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}

	return errors.Join(c.errs...)
}

// Scope prefixes every message with a dotted field path, e.g. "auth.cookie".
type Scope struct {
	c      *Collector
	prefix string
}

func (c *Collector) Scope(prefix string) *Scope {
	return &Scope{c: c, prefix: prefix}
}

func (s *Scope) Scope(name string) *Scope {
	return &Scope{c: s.c, prefix: s.prefix + "." + name}
}

func (s *Scope) Wrapf(sentinel error, format string, args ...any) {
	s.c.Wrapf(sentinel, "%s: %s", s.prefix, fmt.Sprintf(format, args...))
}

func (s *Scope) If(cond bool, sentinel error, format string, args ...any) {
	if cond {
		s.Wrapf(sentinel, format, args...)
	}
}
