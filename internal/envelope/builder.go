package envelope

import (
	"time"

	"github.com/freitascorp/pwcli/internal/pwerr"
)

// Builder constructs an Envelope with fluent setters, grounded on the
// original's ResultBuilder (result_builder.rs): success is computed, never
// set directly, and duration auto-derives from a start time unless an
// explicit value is supplied.
type Builder struct {
	command     string
	inputs      *Inputs
	data        any
	err         *Error
	start       time.Time
	explicitDur *int64
	artifacts   []Artifact
	diagnostics []Diagnostic
	config      *EffectiveConfig
	schema      *int
}

// New starts a builder for the given canonical command name.
func New(command string) *Builder {
	v := SchemaVersion
	return &Builder{command: command, start: time.Now(), schema: &v}
}

func (b *Builder) Inputs(in Inputs) *Builder {
	b.inputs = &in
	return b
}

func (b *Builder) Data(data any) *Builder {
	b.data = data
	return b
}

func (b *Builder) Error(code pwerr.Code, message string) *Builder {
	b.err = &Error{Code: code, Message: message}
	return b
}

func (b *Builder) ErrorWithDetails(code pwerr.Code, message string, details any) *Builder {
	b.err = &Error{Code: code, Message: message, Details: details}
	return b
}

func (b *Builder) ErrorFrom(e *pwerr.Error) *Builder {
	b.err = &Error{Code: e.Code, Message: e.Message, Details: e.Details}
	return b
}

func (b *Builder) Artifact(a Artifact) *Builder {
	b.artifacts = append(b.artifacts, a)
	return b
}

func (b *Builder) Artifacts(as []Artifact) *Builder {
	b.artifacts = append(b.artifacts, as...)
	return b
}

func (b *Builder) Diagnostic(level DiagnosticLevel, message string) *Builder {
	b.diagnostics = append(b.diagnostics, Diagnostic{Level: level, Message: message})
	return b
}

func (b *Builder) DiagnosticWithSource(level DiagnosticLevel, message, source string) *Builder {
	b.diagnostics = append(b.diagnostics, Diagnostic{Level: level, Message: message, Source: source})
	return b
}

func (b *Builder) Config(cfg EffectiveConfig) *Builder {
	b.config = &cfg
	return b
}

func (b *Builder) DurationMs(ms int64) *Builder {
	b.explicitDur = &ms
	return b
}

// Build finalizes the envelope. Success is computed: error absent AND data present.
func (b *Builder) Build() Envelope {
	success := b.err == nil && b.data != nil

	dur := b.explicitDur
	if dur == nil {
		ms := durationMs(time.Since(b.start))
		dur = &ms
	}

	env := Envelope{
		SchemaVersion: *b.schema,
		Success:       success,
		Command:       b.command,
		Inputs:        b.inputs,
		Error:         b.err,
		DurationMs:    dur,
		Artifacts:     b.artifacts,
		Diagnostics:   b.diagnostics,
		Config:        b.config,
	}
	if success {
		env.Data = b.data
	}
	return env
}
