package internal

import (
	"fmt"
	"os"
	"time"
)

// FileBackend appends newline-delimited records to a per-process log file
// named doom-<unix-seconds>.log.
type FileBackend struct {
	f *os.File
}

func NewFileBackend() *FileBackend {
	return &FileBackend{}
}

func (b *FileBackend) NeedsTerminator() bool { return true }

func (b *FileBackend) Init() error {
	name := fmt.Sprintf("doom-%d.log", time.Now().Unix())
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnCreate, err)
	}
	b.f = f
	return nil
}

// Write issues the payload as a single write. The trailing '\n' is already
// part of b (composer.Compose appended it for this back-end).
func (b *FileBackend) Write(payload []byte) (int, error) {
	n, err := b.f.Write(payload)
	if err != nil {
		return n, fmt.Errorf("telemetry: file write failed: %w", err)
	}
	return n, nil
}

func (b *FileBackend) Close() error {
	if b.f == nil {
		return nil
	}
	return b.f.Close()
}
