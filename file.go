package fatfs

import (
	"io"
	"log/slog"
)

// File is a handle returned by Open. It implements io.Reader, io.Writer,
// io.Seeker, and io.Closer so it can be used with the standard library
// (io.Copy, io.ReadAll, ...) instead of the raw -1-sentinel convention the
// original C reference used; that convention survives only in the shim
// package.
type File struct {
	fs   *FS
	id   int
	name string
}

// ID is the handle table slot backing this file, 0..31. It is exposed so
// the shim package can return it as the original fs_open's fd.
func (f *File) ID() int { return f.id }

// Open opens name for reading and writing and returns a handle. There is
// no separate read/write open mode per file; ModeRead/ModeWrite on the
// mount govern what operations the handle allows, matching fs_open, which
// has no mode argument of its own.
func (fs *FS) Open(name string) (*File, error) {
	const op = "open"
	if err := fs.checkMounted(op); err != nil {
		return nil, err
	}
	slot, found := fs.root.lookup(name)
	if !found {
		return nil, newErr(op, resultNoFile)
	}
	id, res := fs.handles.open(slot)
	if res != resultOK {
		return nil, newErr(op, res)
	}
	fs.trace("opened file", slog.String("name", name), slog.Int("handle", id))
	return &File{fs: fs, id: id, name: name}, nil
}

func (f *File) handle() (*openHandle, error) {
	if !f.fs.mounted {
		return nil, newErr("", resultNotMounted)
	}
	if !f.fs.handles.valid(f.id) {
		return nil, newErr("", resultInvalidHandle)
	}
	return &f.fs.handles.slots[f.id], nil
}

// Close releases the handle. The underlying file's data is untouched;
// metadata is only flushed to the device on FS.Unmount.
func (f *File) Close() error {
	const op = "close"
	if !f.fs.handles.valid(f.id) {
		return newErr(op, resultInvalidHandle)
	}
	fs := f.fs
	if res := fs.handles.close(f.id); res != resultOK {
		return newErr(op, res)
	}
	fs.trace("closed file", slog.String("name", f.name), slog.Int("handle", f.id))
	return nil
}

// Size returns the file's current byte length.
func (f *File) Size() (int64, error) {
	h, err := f.handle()
	if err != nil {
		return 0, err
	}
	return int64(f.fs.root.entries[h.rootIdx].size), nil
}

// Seek implements io.Seeker. whence follows the usual io.SeekStart,
// io.SeekCurrent, io.SeekEnd convention; spec.md's lseek only describes
// absolute seeks, so SeekStart is the primary path the shim package uses.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	const op = "lseek"
	h, err := f.handle()
	if err != nil {
		return 0, err
	}
	size := int64(f.fs.root.entries[h.rootIdx].size)
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = h.offset + offset
	case io.SeekEnd:
		abs = size + offset
	default:
		return 0, newErr(op, resultInvalidParameter)
	}
	if abs < 0 || abs > size {
		return 0, newErr(op, resultOffsetOutOfRange)
	}
	h.offset = abs
	return abs, nil
}

// Read implements io.Reader, filling buf from the file's current offset
// and advancing it. It reports io.EOF once the offset reaches the file's
// size, same as a regular *os.File.
func (f *File) Read(buf []byte) (int, error) {
	const op = "read"
	h, err := f.handle()
	if err != nil {
		return 0, err
	}
	fs := f.fs
	if fs.mode&ModeRead == 0 {
		return 0, newErr(op, resultNotReadable)
	}
	if len(buf) == 0 {
		return 0, nil
	}
	entry := fs.root.entries[h.rootIdx]
	if h.offset >= int64(entry.size) {
		return 0, io.EOF
	}
	avail := int64(entry.size) - h.offset
	n := int64(len(buf))
	if n > avail {
		n = avail
	}
	blocks := ceilDiv(int64(entry.size), int64(fs.blockSize))
	bounce, err := fs.readChain(entry.firstBlock, int(blocks))
	if err != nil {
		return 0, newErr(op, resultDiskErr)
	}
	copy(buf[:n], bounce[h.offset:h.offset+n])
	h.offset += n
	fs.trace("read", slog.String("name", f.name), slog.Int64("n", n))
	return int(n), nil
}

// Write implements io.Writer. It extends the file's data chain as needed,
// zero-filling newly allocated blocks (SPEC_FULL.md's open question 4)
// before splicing buf in via a whole-chain bounce buffer, and returns a
// partial count instead of an error if the device runs out of free blocks
// partway through (SPEC_FULL.md's open question 2: already-allocated
// blocks are kept, never rolled back).
func (f *File) Write(buf []byte) (int, error) {
	const op = "write"
	h, err := f.handle()
	if err != nil {
		return 0, err
	}
	fs := f.fs
	if fs.mode&ModeWrite == 0 {
		return 0, newErr(op, resultNotWritable)
	}
	n := len(buf)
	if n == 0 {
		return 0, nil
	}
	entry := &fs.root.entries[h.rootIdx]
	bs := int64(fs.blockSize)
	curBlocks := ceilDiv(int64(entry.size), bs)
	reqBlocks := ceilDiv(h.offset+int64(n), bs)

	if reqBlocks > curBlocks {
		need := int(reqBlocks - curBlocks)
		allocated := fs.fat.extendChain(&entry.firstBlock, need, fs.zeroBlock)
		if allocated < need {
			avail := curBlocks*bs - int64(entry.size) + int64(allocated)*bs
			if avail < 0 {
				avail = 0
			}
			if int64(n) > avail {
				n = int(avail)
				fs.warn("write: disk full, wrote partial buffer", slog.String("name", f.name), slog.Int("n", n))
			}
		}
	}
	if n == 0 {
		return 0, nil
	}

	newSize := h.offset + int64(n)
	totalBytes := int64(entry.size)
	if newSize > totalBytes {
		totalBytes = newSize
	}
	totalBlocks := ceilDiv(totalBytes, bs)

	bounce, err := fs.readChain(entry.firstBlock, int(totalBlocks))
	if err != nil {
		return 0, newErr(op, resultDiskErr)
	}
	copy(bounce[h.offset:], buf[:n])
	if err := fs.writeChain(entry.firstBlock, bounce); err != nil {
		return 0, newErr(op, resultDiskErr)
	}

	if newSize > int64(entry.size) {
		entry.size = uint32(newSize)
	}
	fs.root.dirty = true
	h.offset += int64(n)
	fs.trace("write", slog.String("name", f.name), slog.Int("n", n))
	return n, nil
}
