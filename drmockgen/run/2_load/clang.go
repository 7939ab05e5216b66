// Package load turns a C++ header into clang's AST. The header is piped into `clang -ast-dump=json`
// after the macros drmockgen recognizes have been hidden from the preprocessor.
package load

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"bitbucket.org/creachadair/shell"
	"go.uber.org/zap"

	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// DefaultClang is the clang executable used if none is configured.
	DefaultClang = "clang"
	// StdinFile is the name clang gives to source read from stdin.
	StdinFile = "<stdin>"
	// MacroPrefix prefixes the marker declarations that replace hidden macros.
	MacroPrefix = "DRMOCK_"
	// QObjectMarker is the field that replaces the Q_OBJECT macro.
	QObjectMarker = MacroPrefix + "Q_OBJECT"
	// DiagnosticsHeader starts the message of a failed parse.
	DiagnosticsHeader = "Clang failed. Details:"
)

// Runner runs a program with the given stdin and returns what it wrote to stdout and stderr.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) (stdout, stderr []byte, err error)
}

// ExecRunner runs programs as child processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.Bytes(), stderr.Bytes(), err //nolint:wrapcheck // callers add context
}

// Reader parses headers with a clang executable.
type Reader struct {
	Executable string
	Runner     Runner
	// GOOS selects platform defaults; on darwin the SDK is added as system root.
	GOOS   string
	Logger *zap.SugaredLogger
}

// NewReader returns a Reader running executable, or DefaultClang if it is empty.
func NewReader(executable string, runner Runner, goos string, logger *zap.SugaredLogger) *Reader {
	if executable == "" {
		executable = DefaultClang
	}

	return &Reader{Executable: executable, Runner: runner, GOOS: goos, Logger: logger}
}

// Read parses source, the content of the header at path, with the additional compiler flags.
// Any diagnostic clang reports is an error marked errors.ErrParse.
func (r *Reader) Read(ctx context.Context, path, source string, flags []string) (*TranslationUnit, error) {
	args, err := r.Args(ctx, path, flags)
	if err != nil {
		return nil, err
	}

	hidden := HideMacros(source)

	r.Logger.Debugw("running clang", "command", shell.Join(append([]string{r.Executable}, args...)))

	stdout, stderr, err := r.Runner.Run(ctx, r.Executable, args, hidden)
	if err != nil || len(bytes.TrimSpace(stderr)) > 0 {
		return nil, diagnosticsError(stderr, err)
	}

	return Decode(stdout, hidden, StdinFile)
}

// Args returns clang's command line for the header at path. The directory of path is searched for
// includes, as the header itself is passed through stdin.
func (r *Reader) Args(ctx context.Context, path string, flags []string) ([]string, error) {
	args := []string{"-x", "c++", "-std=c++17", "-fsyntax-only", "-Xclang", "-ast-dump=json"}
	args = append(args, "-I", filepath.Dir(path))
	args = append(args, flags...)

	if r.GOOS == "darwin" && !slices.ContainsFunc(flags, isSysroot) {
		sdk, err := r.sdkPath(ctx)
		if err != nil {
			return nil, err
		}

		args = append(args, "-isysroot", sdk)
	}

	return append(args, "-"), nil
}

func (r *Reader) sdkPath(ctx context.Context) (string, error) {
	stdout, stderr, err := r.Runner.Run(ctx, "xcrun", []string{"--show-sdk-path"}, "")
	if err != nil {
		return "", errors.WithDetail(
			errors.Wrap(err, "locating the macOS SDK"),
			strings.TrimSpace(string(stderr)),
		)
	}

	return strings.TrimSpace(string(stdout)), nil
}

// HideMacros replaces every Q_OBJECT by an #undef and the marker declaration QObjectMarker, so that
// the macro survives preprocessing as a field.
func HideMacros(source string) string {
	return qObjectPattern.ReplaceAllLiteralString(source, "#undef Q_OBJECT\nint "+QObjectMarker+";")
}

// unexported variables.
var (
	//nolint:gochecknoglobals // compiled once
	qObjectPattern = regexp.MustCompile(`\bQ_OBJECT\b`)
)

func diagnosticsError(stderr []byte, err error) error {
	details := strings.TrimSpace(string(stderr))
	if details == "" && err != nil {
		details = err.Error()
	}

	lines := strings.Split(details, "\n")
	for i, line := range lines {
		lines[i] = "\t" + line
	}

	result := errors.Newf("%s\n\n%s", DiagnosticsHeader, strings.Join(lines, "\n"))
	if err != nil {
		result = errors.WithDetail(result, err.Error())
	}

	return errors.Mark(result, errors.ErrParse)
}

func isSysroot(flag string) bool {
	return strings.HasPrefix(flag, "-isysroot")
}
