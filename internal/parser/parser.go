// Package parser turns raw command output into structured facts.
//
// Grammars are pure functions registered per (dialect, command) in a table
// built at startup. A grammar failure is reported as a ParseError that keeps
// the original raw output; discovery surfaces it instead of dropping data
// silently.
package parser

import (
	"errors"
	"fmt"
	"sync"

	"netlens/internal/domain"
)

// Commands the discovery pipeline depends on.
const (
	CommandShowVersion   = "show version"
	CommandCDPNeighbors  = "show cdp neighbors detail"
	CommandLLDPNeighbors = "show lldp neighbors detail"
)

// Func parses raw command output into a structured fact.
type Func func(raw string) (any, error)

// ErrNoParser is returned when no grammar is registered for a
// (dialect, command) pair.
var ErrNoParser = errors.New("no parser registered")

// ParseError reports a grammar failure and preserves the raw output for
// diagnostic surfacing.
type ParseError struct {
	Dialect domain.Dialect
	Command string
	Raw     string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q (%s): %v", e.Command, e.Dialect, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

type grammarKey struct {
	dialect domain.Dialect
	command string
}

// Registry maps (dialect, command) to a grammar.
type Registry struct {
	mu       sync.RWMutex
	grammars map[grammarKey]Func
}

// NewRegistry creates an empty grammar registry.
func NewRegistry() *Registry {
	return &Registry{grammars: make(map[grammarKey]Func)}
}

// Register installs a grammar for a (dialect, command) pair.
func (r *Registry) Register(dialect domain.Dialect, command string, fn Func) {
	r.mu.Lock()
	r.grammars[grammarKey{dialect, command}] = fn
	r.mu.Unlock()
}

// Supports reports whether a grammar is registered for the pair.
func (r *Registry) Supports(dialect domain.Dialect, command string) bool {
	r.mu.RLock()
	_, ok := r.grammars[grammarKey{dialect, command}]
	r.mu.RUnlock()
	return ok
}

// Parse runs the registered grammar over raw output. Returns ErrNoParser
// (wrapped) when no grammar exists, or a *ParseError carrying the raw text
// when the grammar rejects the output.
func (r *Registry) Parse(dialect domain.Dialect, command, raw string) (any, error) {
	r.mu.RLock()
	fn, ok := r.grammars[grammarKey{dialect, command}]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for dialect %s command %q", ErrNoParser, dialect, command)
	}

	fact, err := fn(raw)
	if err != nil {
		return nil, &ParseError{Dialect: dialect, Command: command, Raw: raw, Err: err}
	}
	return fact, nil
}

// Default returns a registry populated with the IOS-family grammars for
// every supported dialect.
func Default() *Registry {
	r := NewRegistry()
	for _, dialect := range []domain.Dialect{domain.DialectIOS, domain.DialectIOSXE, domain.DialectNXOS} {
		r.Register(dialect, CommandShowVersion, ParseShowVersion)
		r.Register(dialect, CommandCDPNeighbors, ParseCDPNeighbors)
		r.Register(dialect, CommandLLDPNeighbors, ParseLLDPNeighbors)
	}
	return r
}
