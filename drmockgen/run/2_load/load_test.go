package load_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	load "github.com/DrCpp/drmock-generator/drmockgen/run/2_load"
	drmockerrors "github.com/DrCpp/drmock-generator/internal/errors"
	"github.com/DrCpp/drmock-generator/internal/logger"
)

type call struct {
	name  string
	args  []string
	stdin string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]fakeOutput
}

type fakeOutput struct {
	stdout, stderr string
	err            error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdin string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args, stdin: stdin})
	out := f.outputs[name]

	return []byte(out.stdout), []byte(out.stderr), out.err
}

func TestHideMacros(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, source, want string
	}{
		{
			name:   "replaces whole words",
			source: "class A {\n  Q_OBJECT\n};",
			want:   "class A {\n  #undef Q_OBJECT\nint DRMOCK_Q_OBJECT;\n};",
		},
		{
			name:   "keeps longer identifiers",
			source: "Q_OBJECT_LIKE MY_Q_OBJECT",
			want:   "Q_OBJECT_LIKE MY_Q_OBJECT",
		},
		{
			name:   "no macro",
			source: "struct B {};",
			want:   "struct B {};",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(load.HideMacros(tt.source)).To(Equal(tt.want))
		})
	}
}

func TestArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reader := load.NewReader("", &fakeRunner{}, "linux", logger.Nop())

	args, err := reader.Args(context.Background(), "include/foo/IFoo.h", []string{"-DFOO", "-I/opt"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(reader.Executable).To(Equal(load.DefaultClang))
	g.Expect(args).To(Equal([]string{
		"-x", "c++", "-std=c++17", "-fsyntax-only", "-Xclang", "-ast-dump=json",
		"-I", "include/foo", "-DFOO", "-I/opt", "-",
	}))
}

func TestArgs_DarwinSysroot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	runner := &fakeRunner{outputs: map[string]fakeOutput{"xcrun": {stdout: "/sdk/path\n"}}}
	reader := load.NewReader("clang-17", runner, "darwin", logger.Nop())

	args, err := reader.Args(context.Background(), "IFoo.h", nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(args).To(HaveExactElements(
		"-x", "c++", "-std=c++17", "-fsyntax-only", "-Xclang", "-ast-dump=json",
		"-I", ".", "-isysroot", "/sdk/path", "-",
	))

	args, err = reader.Args(context.Background(), "IFoo.h", []string{"-isysroot", "/mine"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(args).NotTo(ContainElement("/sdk/path"))
	g.Expect(runner.calls).To(HaveLen(1))
}

func TestRead_Diagnostics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"clang": {stderr: "<stdin>:1:7: error: expected ';'\n1 error generated.\n", err: errors.New("exit status 1")},
	}}
	reader := load.NewReader("clang", runner, "linux", logger.Nop())

	_, err := reader.Read(context.Background(), "IFoo.h", "class A { Q_OBJECT }", nil)
	g.Expect(err).To(HaveOccurred())
	g.Expect(drmockerrors.Is(err, drmockerrors.ErrParse)).To(BeTrue())
	g.Expect(err.Error()).To(HavePrefix("Clang failed. Details:\n\n\t<stdin>:1:7: error: expected ';'\n\t1 error generated."))

	g.Expect(runner.calls).To(HaveLen(1))
	g.Expect(runner.calls[0].stdin).To(ContainSubstring("int DRMOCK_Q_OBJECT;"))
}

func TestRead_WarningsAreDiagnostics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	runner := &fakeRunner{outputs: map[string]fakeOutput{
		"clang": {stdout: `{"kind":"TranslationUnitDecl"}`, stderr: "warning: unused"},
	}}

	_, err := load.NewReader("", runner, "linux", logger.Nop()).Read(context.Background(), "a.h", "", nil)
	g.Expect(drmockerrors.Is(err, drmockerrors.ErrParse)).To(BeTrue())
}

func TestRead_Decodes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := "class Foo {};\n"
	dump := `{"kind":"TranslationUnitDecl","inner":[` +
		`{"kind":"CXXRecordDecl","name":"Foo","tagUsed":"class","completeDefinition":true,` +
		`"loc":{"offset":6,"file":"<stdin>","line":1,"col":7,"tokLen":3},` +
		`"range":{"begin":{"offset":0,"col":1,"tokLen":5},"end":{"offset":11,"col":12,"tokLen":1}}}]}`

	runner := &fakeRunner{outputs: map[string]fakeOutput{"clang": {stdout: dump}}}

	tu, err := load.NewReader("", runner, "linux", logger.Nop()).Read(context.Background(), "a.h", source, nil)
	g.Expect(err).NotTo(HaveOccurred())

	children := tu.Children(tu.Root)
	g.Expect(children).To(HaveLen(1))
	g.Expect(children[0].Name).To(Equal("Foo"))
	g.Expect(children[0].CompleteDefinition).To(BeTrue())
	g.Expect(tu.Text(children[0])).To(Equal("class Foo {}"))
	g.Expect(tu.Tokens(children[0])).To(Equal([]string{"class", "Foo", "{", "}"}))
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := load.Decode([]byte("{"), "", load.StdinFile)
	g.Expect(drmockerrors.Is(err, drmockerrors.ErrParse)).To(BeTrue())
}

// TestDecode_ResolvesElidedFiles proves that locations without a file inherit the file of the
// previously dumped location, including locations inside macro expansions.
func TestDecode_ResolvesElidedFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	at := func(file string, offset int) load.Loc {
		return load.Loc{File: file, Offset: offset, TokLen: 1}
	}

	root := load.Node{Kind: "TranslationUnitDecl", Inner: []*load.Node{
		{Kind: "TypedefDecl", IsImplicit: true},
		{Kind: "CXXRecordDecl", Name: "Included", Loc: at("/usr/include/x.h", 10)},
		{Kind: "CXXRecordDecl", Name: "AlsoIncluded", Loc: at("", 20)},
		{Kind: "CXXRecordDecl", Name: "Main", Loc: at(load.StdinFile, 0), Inner: []*load.Node{
			{Kind: "CXXMethodDecl", Name: "f", Loc: at("", 5)},
			{Kind: "FieldDecl", Name: "x", Loc: load.Loc{
				SpellingLoc:  &load.Loc{File: "<scratch space>", Offset: 1, TokLen: 1},
				ExpansionLoc: &load.Loc{File: load.StdinFile, Offset: 7, TokLen: 1},
			}},
			{Kind: "FieldDecl", Name: "y", Loc: at("", 9)},
		}},
	}}

	data, err := json.Marshal(root)
	g.Expect(err).NotTo(HaveOccurred())

	tu, err := load.Decode(data, strings.Repeat(" ", 32), load.StdinFile)
	g.Expect(err).NotTo(HaveOccurred())

	var names []string
	for _, child := range tu.Children(tu.Root) {
		names = append(names, child.Name)
	}

	g.Expect(names).To(Equal([]string{"Main"}))
	g.Expect(tu.Root.Inner[2].Loc.File).To(Equal("/usr/include/x.h"))

	var members []string
	for _, child := range tu.Children(tu.Root.Inner[3]) {
		members = append(members, child.Name)
	}

	g.Expect(members).To(Equal([]string{"f", "x", "y"}))
}

func TestDump(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	here := load.Loc{File: load.StdinFile, Offset: 0, TokLen: 1}

	record := &load.Node{Kind: "CXXRecordDecl", Name: "IFoo", Loc: here, Inner: []*load.Node{
		{Kind: "CXXRecordDecl", Name: "IFoo", Loc: here, IsImplicit: true},
		{Kind: "CXXMethodDecl", Name: "get", Loc: here, Type: &load.QualType{QualType: "int () const"}, Inner: []*load.Node{
			{Kind: "ParmVarDecl", Name: "key", Loc: here, Type: &load.QualType{QualType: "const std::string &"}},
		}},
		{Kind: "CXXMethodDecl", Name: "elsewhere", Loc: load.Loc{File: "/usr/include/x.h", TokLen: 1}},
	}}

	tu := &load.TranslationUnit{Root: &load.Node{Inner: []*load.Node{record}}, Source: "x", File: load.StdinFile}

	g.Expect(tu.Dump(record)).To(Equal("CXXRecordDecl IFoo\n" +
		"  CXXRecordDecl IFoo implicit\n" +
		"  CXXMethodDecl get 'int () const'\n" +
		"    ParmVarDecl key 'const std::string &'"))
}

func TestBetween_OutOfFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tu := &load.TranslationUnit{Source: "int x;", File: load.StdinFile}

	inFile := load.Loc{File: load.StdinFile, Offset: 0, TokLen: 3}
	elsewhere := load.Loc{File: "other.h", Offset: 4, TokLen: 1}
	past := load.Loc{File: load.StdinFile, Offset: 40, TokLen: 1}

	g.Expect(tu.Between(inFile, load.Loc{File: load.StdinFile, Offset: 5, TokLen: 1})).To(Equal("int x;"))
	g.Expect(tu.Between(inFile, elsewhere)).To(BeEmpty())
	g.Expect(tu.Between(inFile, past)).To(BeEmpty())
	g.Expect(tu.Between(load.Loc{}, inFile)).To(BeEmpty())
}
