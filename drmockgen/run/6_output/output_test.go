package output_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	. "github.com/onsi/gomega"

	generate "github.com/DrCpp/drmock-generator/drmockgen/run/5_generate"
	output "github.com/DrCpp/drmock-generator/drmockgen/run/6_output"
	drmockerrors "github.com/DrCpp/drmock-generator/internal/errors"
	"github.com/DrCpp/drmock-generator/internal/logger"
)

func TestWriteFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headerPath string
		wantSource string
	}{
		{name: "header extension replaced", headerPath: "mock/MockFoo.h", wantSource: "mock/MockFoo.cpp"},
		{name: "hpp extension replaced", headerPath: "MockFoo.hpp", wantSource: "MockFoo.cpp"},
		{name: "no extension", headerPath: "MockFoo", wantSource: "MockFoo.cpp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			writer := newMockWriter()
			out := &bytes.Buffer{}

			files := generate.Files{Header: "// header", Source: "// source"}

			err := output.WriteFiles(files, tt.headerPath, writer, logger.New(out, false))
			g.Expect(err).NotTo(HaveOccurred())

			g.Expect(writer.writtenFiles).To(HaveLen(2))
			g.Expect(string(writer.writtenFiles[tt.headerPath])).To(Equal("// header"))
			g.Expect(string(writer.writtenFiles[tt.wantSource])).To(Equal("// source"))
			g.Expect(writer.perms).To(HaveEach(os.FileMode(output.FilePerm)))

			g.Expect(out.String()).To(ContainSubstring(tt.headerPath + " written successfully"))
			g.Expect(out.String()).To(ContainSubstring(tt.wantSource + " written successfully"))
		})
	}
}

func TestWriteFiles_WriteError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	writer := newMockWriter()
	writer.writeErr = errors.New("write failed")

	err := output.WriteFiles(generate.Files{}, "MockFoo.h", writer, logger.Nop())
	g.Expect(err).To(MatchError(ContainSubstring("error writing MockFoo.h")))
	g.Expect(drmockerrors.Is(err, drmockerrors.ErrIO)).To(BeTrue())
}

// mockWriter is a test mock for the Writer interface.
type mockWriter struct {
	writtenFiles map[string][]byte
	perms        []os.FileMode
	writeErr     error
}

func (m *mockWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.writtenFiles[name] = data
	m.perms = append(m.perms, perm)

	return nil
}

func newMockWriter() *mockWriter {
	return &mockWriter{writtenFiles: make(map[string][]byte)}
}
