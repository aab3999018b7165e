// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package validate

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type JSONSchemaValidator struct {
	schema *jsonschema.Schema
}

type Options struct {
	AssertFormat  bool
	AssertContent bool
	DefaultDraft  *jsonschema.Draft
}

// CompileBytes compiles an in-memory schema. name only identifies the
// resource in error messages.
func CompileBytes(name string, schema []byte, opt Options) (*JSONSchemaValidator, error) {
	if len(bytes.TrimSpace(schema)) == 0 {
		return nil, ErrEmptySchema
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchemaCompile, name, err)
	}

	url := "mem:///" + name

	c := jsonschema.NewCompiler()
	if opt.DefaultDraft != nil {
		c.DefaultDraft(opt.DefaultDraft)
	}
	if opt.AssertFormat {
		c.AssertFormat()
	}
	if opt.AssertContent {
		c.AssertContent()
	}

	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchemaCompile, name, err)
	}

	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchemaCompile, name, err)
	}

	return &JSONSchemaValidator{schema: sch}, nil
}

// Login returns the validator for POST /login bodies.
func Login() (*JSONSchemaValidator, error) {
	b, err := schemaFS.ReadFile("schemas/login.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaCompile, err)
	}
	return CompileBytes("login.json", b, Options{DefaultDraft: jsonschema.Draft2020})
}

func (v *JSONSchemaValidator) Validate(body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalJSON, err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}
	return nil
}
