//nolint:testpackage // Tests internal functions
package run

import (
	"bytes"
	"testing"

	. "github.com/onsi/gomega"

	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

func TestSplitFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantRest  []string
		wantFlags []string
	}{
		{
			name:     "no flags",
			args:     []string{"in.h", "out.h"},
			wantRest: []string{"in.h", "out.h"},
		},
		{
			name:      "short option takes the rest verbatim",
			args:      []string{"in.h", "out.h", "-f", "--std=c++17", "-I", "inc", "-n", "x"},
			wantRest:  []string{"in.h", "out.h"},
			wantFlags: []string{"--std=c++17", "-I", "inc", "-n", "x"},
		},
		{
			name:      "long option",
			args:      []string{"in.h", "--flags", "-DX"},
			wantRest:  []string{"in.h"},
			wantFlags: []string{"-DX"},
		},
		{
			name:      "glued with whitespace",
			args:      []string{"in.h", "out.h", "-f --std=c++17", "-fPIC"},
			wantRest:  []string{"in.h", "out.h"},
			wantFlags: []string{"--std=c++17", "-fPIC"},
		},
		{
			name:      "long option with equals",
			args:      []string{"--flags=-DX", "-DY"},
			wantRest:  []string{},
			wantFlags: []string{"-DX", "-DY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			rest, flags := splitFlags(tt.args)
			g.Expect(rest).To(HaveExactElements(toAny(tt.wantRest)...))
			g.Expect(flags).To(HaveExactElements(toAny(tt.wantFlags)...))
		})
	}
}

func TestParseArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var help bytes.Buffer

	parsed, ok, err := parseArgs([]string{
		"drmockgen", "IFoo.h", "MockFoo.h", "-i", "I(.*)", "-o", `\1Mock`, "-a", "public,protected", "-a", "signals",
		"-n", "::mocks", "-c", "ctrl", "--cache", "-v", "-f", "-DX",
	}, &help)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(help.String()).To(BeEmpty())

	g.Expect(parsed).To(Equal(cliArgs{
		InputPath:   "IFoo.h",
		OutputPath:  "MockFoo.h",
		InputClass:  "I(.*)",
		OutputClass: `\1Mock`,
		Access:      []string{"public,protected", "signals"},
		Namespace:   "::mocks",
		Controller:  "ctrl",
		Cache:       true,
		Verbose:     true,
		Flags:       []string{"-DX"},
	}))
}

func TestParseArgs_Help(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var help bytes.Buffer

	_, ok, err := parseArgs([]string{"drmockgen", "--help"}, &help)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(help.String()).To(ContainSubstring("Usage: drmockgen"))
	g.Expect(help.String()).To(ContainSubstring("--input-class"))
	g.Expect(help.String()).To(ContainSubstring("Always use --flags last"))
}

func TestParseArgs_UnknownOption(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, _, err := parseArgs([]string{"drmockgen", "--bogus"}, &bytes.Buffer{})
	g.Expect(errors.Is(err, errors.ErrUsage)).To(BeTrue())
}

func TestParseAccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, err := parseAccess([]string{"public, protected", "signals", ""})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal([]model.Access{model.Public, model.Protected, model.Signals}))

	_, err = parseAccess([]string{"public,friend"})
	g.Expect(errors.Is(err, errors.ErrUsage)).To(BeTrue())
	g.Expect(err).To(MatchError(ContainSubstring(`"friend"`)))
	g.Expect(errors.FlattenHints(err)).To(Equal("valid specifiers are private, protected, public, signals"))
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, err := resolve(cliArgs{InputPath: "IFoo.h", OutputPath: "MockFoo.h"}, fileConfig{}, noEnv)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(got.Controller).To(Equal(DefaultController))
	g.Expect(got.Clang).To(BeEmpty())
	g.Expect(got.Access).To(Equal([]model.Access{model.Public, model.Protected, model.Private}))
	g.Expect(got.Flags).To(BeEmpty())
	g.Expect(got.Jobs).To(Equal([]job{{
		Input: "IFoo.h", Output: "MockFoo.h", InputClass: DefaultInputClass, OutputClass: DefaultOutputClass,
	}}))
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg := fileConfig{
		Access:     []string{"protected"},
		Namespace:  "cfgns",
		Controller: "cfgctrl",
		Clang:      "clang-cfg",
		Flags:      `-DNAME="a b" -I inc`,
		Mocks: []jobConfig{
			{Input: "cfg/IBar.h", Output: "cfg/MockBar.h", InputClass: "I(.*)", Namespace: "own"},
			{Input: "cfg/IBaz.h", Output: "cfg/MockBaz.h"},
		},
	}

	env := func(key string) string {
		switch key {
		case ClangEnv:
			return "clang-env"
		case IncludeEnv:
			return "/opt/drmock/include"
		default:
			return ""
		}
	}

	got, err := resolve(cliArgs{}, cfg, env)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(got.Clang).To(Equal("clang-env"))
	g.Expect(got.Controller).To(Equal("cfgctrl"))
	g.Expect(got.Access).To(Equal([]model.Access{model.Protected}))
	g.Expect(got.Flags).To(Equal([]string{"-DNAME=a b", "-I", "inc", "-I", "/opt/drmock/include"}))
	g.Expect(got.Jobs).To(Equal([]job{
		{Input: "cfg/IBar.h", Output: "cfg/MockBar.h", InputClass: "I(.*)", OutputClass: DefaultOutputClass, Namespace: "own"},
		{Input: "cfg/IBaz.h", Output: "cfg/MockBaz.h", InputClass: DefaultInputClass, OutputClass: DefaultOutputClass, Namespace: "cfgns"},
	}))

	cli := cliArgs{
		InputPath: "IFoo.h", OutputPath: "MockFoo.h", Access: []string{"private"}, Controller: "ctrl",
		Clang: "clang-cli", Namespace: "clins", Flags: []string{"-DX"},
	}

	got, err = resolve(cli, cfg, env)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(got.Clang).To(Equal("clang-cli"))
	g.Expect(got.Controller).To(Equal("ctrl"))
	g.Expect(got.Access).To(Equal([]model.Access{model.Private}))
	g.Expect(got.Flags).To(Equal([]string{"-DX", "-I", "/opt/drmock/include"}))
	g.Expect(got.Jobs).To(HaveLen(3))
	g.Expect(got.Jobs[1].Namespace).To(Equal("clins"))
	g.Expect(got.Jobs[2]).To(Equal(job{
		Input: "IFoo.h", Output: "MockFoo.h", InputClass: DefaultInputClass, OutputClass: DefaultOutputClass, Namespace: "clins",
	}))
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cli  cliArgs
		cfg  fileConfig
		kind error
	}{
		{name: "no jobs", kind: errors.ErrUsage},
		{name: "input without output", cli: cliArgs{InputPath: "IFoo.h"}, kind: errors.ErrUsage},
		{name: "invalid cli access", cli: cliArgs{InputPath: "a.h", OutputPath: "b.h", Access: []string{"all"}}, kind: errors.ErrUsage},
		{name: "invalid config access", cli: cliArgs{InputPath: "a.h", OutputPath: "b.h"}, cfg: fileConfig{Access: []string{"all"}}, kind: errors.ErrConfig},
		{name: "unbalanced flags", cli: cliArgs{InputPath: "a.h", OutputPath: "b.h"}, cfg: fileConfig{Flags: `-D"X`}, kind: errors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := resolve(tt.cli, tt.cfg, noEnv)
			g.Expect(errors.Is(err, tt.kind)).To(BeTrue(), "error %v", err)
		})
	}
}

func noEnv(string) string {
	return ""
}

func toAny(values []string) []any {
	result := make([]any, 0, len(values))
	for _, v := range values {
		result = append(result, v)
	}

	return result
}
