package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SinkOpener provides named output sinks for generated reports. The engine
// only writes; where the bytes land (directory of text files, test buffer)
// is the opener's business.
type SinkOpener interface {
	Open(name string) (io.WriteCloser, error)
}

// DirSink writes each report to a plain-text file inside Dir, creating the
// directory on first use.
type DirSink struct {
	Dir string
}

func (d DirSink) Open(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", d.Dir, err)
	}
	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %s: %w", name, err)
	}
	return f, nil
}
