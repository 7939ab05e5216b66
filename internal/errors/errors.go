// Package errors is the error vocabulary of drmock-generator.
//
// It re-exports github.com/cockroachdb/errors and defines the sentinel kinds the
// command line maps to exit codes:
//
//	err := errors.Mark(errors.Wrap(cause, "reading header"), errors.ErrIO)
//	if errors.Is(err, errors.ErrIO) { ... }
//
// Defects in the generator itself (a malformed type, an empty overload) are not
// reported through these kinds. They panic with an AssertionFailedf value.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping.
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	Mark        = crdb.Mark
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection.
var (
	Is           = crdb.Is
	As           = crdb.As
	FlattenHints = crdb.FlattenHints
	GetAllHints  = crdb.GetAllHints
)

// Assertions.
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Exported variables.
var (
	// ErrUsage marks malformed command-line arguments.
	ErrUsage = New("usage error")
	// ErrIO marks a failure to read or write a file.
	ErrIO = New("i/o error")
	// ErrNotFound marks a class pattern that matched nothing.
	ErrNotFound = New("no matching class")
	// ErrParse marks a translation unit clang could not parse cleanly.
	ErrParse = New("parse error")
	// ErrConfig marks an unreadable or invalid configuration file.
	ErrConfig = New("configuration error")
)
