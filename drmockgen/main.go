// drmockgen generates drmock mock objects for C++ classes.
// It reads a header with clang, finds the class to mock and writes a mock header and source file:
//
//	drmockgen IFoo.h mock/MockFoo.h -f --std=c++17 -I include
//
// The source file is saved next to the header. Run drmockgen --help for all options.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/DrCpp/drmock-generator/drmockgen/run"
	load "github.com/DrCpp/drmock-generator/drmockgen/run/2_load"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

// main is the entry point of the drmockgen tool.
func main() {
	if os.Args == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run.Run(ctx, os.Args, os.Getenv, &realFileSystem{}, load.ExecRunner{}, os.Stdout)

	stop()

	if err != nil {
		report(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// report prints err and its hints.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "drmockgen: error: %v\n", err)

	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

func exitCode(err error) int {
	if errors.Is(err, errors.ErrUsage) {
		return exitUsage
	}

	return exitFailure
}

// realFileSystem implements run.FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// Open opens the named file for reading.
func (fs *realFileSystem) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return f, nil
}

// Create creates or truncates the named file.
func (fs *realFileSystem) Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	return f, nil
}

// MkdirAll creates a directory along with any necessary parents.
func (fs *realFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}
