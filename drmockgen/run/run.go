// Package run implements the drmockgen command in a testable way.
package run

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cache "github.com/DrCpp/drmock-generator/drmockgen/run/1_cache"
	load "github.com/DrCpp/drmock-generator/drmockgen/run/2_load"
	detect "github.com/DrCpp/drmock-generator/drmockgen/run/3_detect"
	generate "github.com/DrCpp/drmock-generator/drmockgen/run/5_generate"
	output "github.com/DrCpp/drmock-generator/drmockgen/run/6_output"
	"github.com/DrCpp/drmock-generator/internal/errors"
	"github.com/DrCpp/drmock-generator/internal/logger"
)

// Exported constants.
const (
	// IncludeEnv names a directory added to the include path of every parse.
	IncludeEnv = "DRMOCK_GENERATOR_INCLUDE"
	// ClangEnv names the clang executable.
	ClangEnv = "DRMOCK_CLANG"
)

// FileSystem interface for mocking.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	output.Writer
	cache.FileSystem
}

// Run executes the drmockgen tool logic. It takes the command-line arguments including the program
// name, an environment variable getter, a FileSystem for file operations and a Runner that runs
// clang. Log output goes to out. Every mock named on the command line or in the config file is
// generated concurrently; the first failure cancels the rest and is returned.
func Run(
	ctx context.Context, args []string, getEnv func(string) string, fileSys FileSystem, runner load.Runner, out io.Writer,
) error {
	var help bytes.Buffer

	cli, ok, err := parseArgs(args, &help)
	if err != nil {
		return err
	}

	if !ok {
		_, _ = out.Write(help.Bytes())

		return nil
	}

	var cfg fileConfig

	if cli.Config != "" {
		cfg, err = loadConfig(cli.Config, fileSys)
		if err != nil {
			return err
		}
	}

	opts, err := resolve(cli, cfg, getEnv)
	if err != nil {
		return err
	}

	log := logger.New(out, opts.Verbose)

	gen := &generator{
		fs:       fileSys,
		reader:   load.NewReader(opts.Clang, runner, runtime.GOOS, log),
		settings: opts,
		logger:   log,
	}

	if opts.Cache {
		gen.cache = cache.New(fileSys)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for _, j := range opts.Jobs {
		group.Go(func() error {
			return gen.generate(groupCtx, j)
		})
	}

	return group.Wait() //nolint:wrapcheck // jobs wrap their own errors
}

// generator runs jobs with shared settings.
type generator struct {
	fs       FileSystem
	reader   *load.Reader
	cache    *cache.Cache
	settings settings
	logger   *zap.SugaredLogger
}

func (g *generator) generate(ctx context.Context, j job) error {
	source, err := g.fs.ReadFile(j.Input)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "reading %s", j.Input), errors.ErrIO)
	}

	signature := cache.Signature(g.signatureArgs(j), string(source))

	if g.cache != nil {
		if entry, ok := g.cache.Get(j.Output, signature); ok {
			g.logger.Debugw("cache hit", "input", j.Input, "output", j.Output)

			return output.WriteFiles(generate.Files{Header: entry.Header, Source: entry.Source}, j.Output, g.fs, g.logger)
		}
	}

	files, err := g.render(ctx, j, string(source))
	if err != nil {
		return err
	}

	err = output.WriteFiles(files, j.Output, g.fs, g.logger)
	if err != nil {
		return err
	}

	if g.cache != nil {
		err = g.cache.Put(j.Output, cache.Entry{Signature: signature, Header: files.Header, Source: files.Source})
		if err != nil {
			g.logger.Warnw("cache not updated", "output", j.Output, "error", err)
		}
	}

	return nil
}

// signatureArgs lists everything besides the header text that shapes the output of j: the job
// itself and the settings resolved from the command line, the environment and the config file.
func (g *generator) signatureArgs(j job) []string {
	args := []string{
		j.Input, j.Output, j.InputClass, j.OutputClass, j.Namespace, g.settings.Controller, g.reader.Executable,
	}

	for _, access := range g.settings.Access {
		args = append(args, string(access))
	}

	args = append(args, "--")

	return append(args, g.settings.Flags...)
}

func (g *generator) render(ctx context.Context, j job, source string) (generate.Files, error) {
	tu, err := g.reader.Read(ctx, j.Input, source, g.settings.Flags)
	if err != nil {
		return generate.Files{}, err //nolint:wrapcheck // the diagnostics are the message
	}

	match, err := detect.Find(tu, j.InputClass)
	if err != nil {
		return generate.Files{}, errors.Wrapf(err, "searching %s", j.Input)
	}

	class := match.Class

	g.logger.Debugw("class found", "class", class.FullName(), "input", j.Input)

	if g.logger.Desugar().Core().Enabled(zap.DebugLevel) {
		g.logger.Debugf("AST of %s:\n%s", class.FullName(), tu.Dump(match.Node))
	}

	name, err := generate.OutputName(j.InputClass, j.OutputClass, class.Name)
	if err != nil {
		return generate.Files{}, errors.Mark(err, errors.ErrUsage)
	}

	inputPath, err := filepath.Abs(j.Input)
	if err != nil {
		return generate.Files{}, errors.Mark(errors.Wrapf(err, "resolving %s", j.Input), errors.ErrIO)
	}

	g.logger.Debugw("generating mock", "mock", name, "methods", len(class.VirtualMethods()))

	return generate.Generate(class, generate.Options{
		Name:       name,
		Namespace:  j.Namespace,
		Controller: g.settings.Controller,
		Access:     g.settings.Access,
		InputPath:  inputPath,
		HeaderPath: j.Output,
	}), nil
}
