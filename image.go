package gofat

import (
	"io"

	"github.com/kdwils/gofat/checkpoint"
)

// imageIO is the scoped acquisition of a read/write random-access byte
// stream over the backing image. It never buffers more than the
// caller asks for, and Fs above it caches no sectors or clusters either;
// only the FAT itself is held in memory (fatTable).
type imageIO struct {
	rw io.ReadWriteSeeker
}

func newImageIO(rw io.ReadWriteSeeker) *imageIO {
	return &imageIO{rw: rw}
}

// readAt seeks to an absolute byte offset and reads exactly size bytes.
// A short read is an error - the FAT format has no notion of a partial
// sector or cluster.
func (i *imageIO) readAt(offset int64, size int64) ([]byte, error) {
	if _, err := i.rw.Seek(offset, io.SeekStart); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(i.rw, buf); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	return buf, nil
}

// writeAt seeks to an absolute byte offset and writes the whole of data.
func (i *imageIO) writeAt(offset int64, data []byte) error {
	if _, err := i.rw.Seek(offset, io.SeekStart); err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}

	n, err := i.rw.Write(data)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	if n != len(data) {
		return checkpoint.Wrap(io.ErrShortWrite, ErrIO)
	}

	return nil
}

// close releases the backing stream if it also implements io.Closer.
// Called on every exit path from Fs, including mount failure and error
// paths.
func (i *imageIO) close() error {
	if c, ok := i.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
