package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/DrCpp/drmock-generator/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(exitCode(errors.Mark(errors.New("bad option"), errors.ErrUsage))).To(Equal(exitUsage))
	g.Expect(exitCode(errors.Mark(errors.New("disk full"), errors.ErrIO))).To(Equal(exitFailure))
	g.Expect(exitCode(errors.New("anything"))).To(Equal(exitFailure))
}

func TestReport_PrintsHints(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var out bytes.Buffer

	report(&out, errors.WithHint(errors.New("no class matching 'X' found"), "check --input-class"))

	g.Expect(out.String()).To(Equal("drmockgen: error: no class matching 'X' found\nhint: check --input-class\n"))
}

func TestRealFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := &realFileSystem{}
	dir := filepath.Join(t.TempDir(), "mock", ".drmockgen")

	g.Expect(fs.MkdirAll(dir, 0o755)).To(Succeed())

	path := filepath.Join(dir, "MockFoo.h")
	g.Expect(fs.WriteFile(path, []byte("class MockFoo;"), 0o644)).To(Succeed())

	data, err := fs.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("class MockFoo;"))

	w, err := fs.Create(path)
	g.Expect(err).NotTo(HaveOccurred())
	_, err = w.Write([]byte("rewritten"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(w.Close()).To(Succeed())

	r, err := fs.Open(path)
	g.Expect(err).NotTo(HaveOccurred())
	content, err := io.ReadAll(r)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Close()).To(Succeed())
	g.Expect(string(content)).To(Equal("rewritten"))

	_, err = fs.ReadFile(filepath.Join(dir, "missing.h"))
	g.Expect(err).To(MatchError(ContainSubstring("failed to read file")))

	_, err = fs.Open(filepath.Join(dir, "missing.h"))
	g.Expect(err).To(HaveOccurred())
}
