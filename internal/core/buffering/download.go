package buffering

import (
	"fmt"
	"io"
	"os"

	"github.com/alxayo/go-decodebin/internal/bufpool"
	"github.com/alxayo/go-decodebin/internal/core/element"
)

// DownloadBuffer backs ModeDownloadBuffer (spec §4.D: "is_stream with known
// duration AND download=true"): incoming buffers are staged through bufpool
// and appended to a temp file on disk, generalized from the teacher's
// recorder.go writing incoming media to a file under a configured directory.
type DownloadBuffer struct {
	file    *os.File
	written int64
}

// NewDownloadBuffer creates the backing temp file under dir, named after id.
func NewDownloadBuffer(dir, id string) (*DownloadBuffer, error) {
	f, err := os.CreateTemp(dir, "decodebin-download-"+id+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("buffering: download buffer: %w", err)
	}
	return &DownloadBuffer{file: f}, nil
}

// Write stages buf.Payload through a pooled buffer before appending it to the
// backing file, keeping the per-write allocation off the hot path.
func (d *DownloadBuffer) Write(buf element.Buffer) error {
	if len(buf.Payload) == 0 {
		return nil
	}
	staged := bufpool.Get(len(buf.Payload))
	defer bufpool.Put(staged)
	copy(staged, buf.Payload)

	n, err := d.file.Write(staged)
	d.written += int64(n)
	if err != nil {
		return fmt.Errorf("buffering: download buffer write: %w", err)
	}
	return nil
}

// Written returns the number of bytes appended so far.
func (d *DownloadBuffer) Written() int64 { return d.written }

// ReadRange reads back [offset, offset+size) for a downstream consumer that
// seeks within already-downloaded content. The caller owns the returned
// buffer and should return it with bufpool.Put once done.
func (d *DownloadBuffer) ReadRange(offset int64, size int) ([]byte, error) {
	out := bufpool.Get(size)
	n, err := d.file.ReadAt(out, offset)
	if err != nil && err != io.EOF {
		bufpool.Put(out)
		return nil, fmt.Errorf("buffering: download buffer read: %w", err)
	}
	return out[:n], nil
}

// Close closes and removes the backing temp file.
func (d *DownloadBuffer) Close() error {
	name := d.file.Name()
	if err := d.file.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
