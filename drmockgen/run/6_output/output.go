// Package output writes the generated header and source file.
package output

import (
	"os"

	"go.uber.org/zap"

	generate "github.com/DrCpp/drmock-generator/drmockgen/run/5_generate"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// FilePerm is the permission of generated files.
	FilePerm = 0o644
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// WriteFiles writes files.Header to headerPath and files.Source next to it, see generate.SourcePath.
func WriteFiles(files generate.Files, headerPath string, fileWriter Writer, logger *zap.SugaredLogger) error {
	outputs := []struct {
		path, content string
	}{
		{headerPath, files.Header},
		{generate.SourcePath(headerPath), files.Source},
	}

	for _, out := range outputs {
		err := fileWriter.WriteFile(out.path, []byte(out.content), FilePerm)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "error writing %s", out.path), errors.ErrIO)
		}

		logger.Infof("%s written successfully", out.path)
	}

	return nil
}
