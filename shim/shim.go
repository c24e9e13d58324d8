// Package shim restores the exact process-wide, -1-sentinel API that
// original_source/libfs/fs.c exposed (fs_mount, fs_umount, fs_info,
// fs_create, fs_delete, fs_ls, fs_open, fs_close, fs_stat, fs_lseek,
// fs_write, fs_read), as a thin wrapper over the idiomatic fatfs package.
// It exists for callers migrating off the C reference who want a drop-in
// equivalent; the core package never imports or depends on it.
//
// The original fs_mount took a disk path and opened the file itself. That
// responsibility belongs to the block device adapter, which spec.md
// treats as an external collaborator, so FSMount takes a fatfs.BlockDevice
// instead of a path.
package shim

import (
	"io"
	"os"

	"github.com/ecs150fs/fatfs"
)

const maxOpenFiles = 32

var (
	fs      fatfs.FS
	mounted bool
	files   [maxOpenFiles]*fatfs.File
)

func validFD(fd int) bool {
	return mounted && fd >= 0 && fd < maxOpenFiles && files[fd] != nil
}

// FSMount mounts bd read-write. Returns 0 on success, -1 otherwise.
func FSMount(bd fatfs.BlockDevice) int {
	if mounted {
		return -1
	}
	if err := fs.Mount(bd, fatfs.ModeRW); err != nil {
		return -1
	}
	mounted = true
	return 0
}

// FSUmount flushes and detaches the mounted filesystem. Fails if any file
// is still open, matching fs_umount.
func FSUmount() int {
	if !mounted {
		return -1
	}
	if err := fs.Unmount(); err != nil {
		return -1
	}
	mounted = false
	files = [maxOpenFiles]*fatfs.File{}
	return 0
}

// FSInfo prints the fs_info report to stdout.
func FSInfo() int {
	if !mounted {
		return -1
	}
	if err := fs.WriteInfo(os.Stdout); err != nil {
		return -1
	}
	return 0
}

// FSCreate creates an empty file named filename.
func FSCreate(filename string) int {
	if !mounted {
		return -1
	}
	if err := fs.Create(filename); err != nil {
		return -1
	}
	return 0
}

// FSDelete deletes filename and frees its data chain.
func FSDelete(filename string) int {
	if !mounted {
		return -1
	}
	if err := fs.Delete(filename); err != nil {
		return -1
	}
	return 0
}

// FSLs prints the fs_ls report to stdout.
func FSLs() int {
	if !mounted {
		return -1
	}
	if err := fs.WriteLs(os.Stdout); err != nil {
		return -1
	}
	return 0
}

// FSOpen opens filename and returns a file descriptor in [0, 32), or -1.
func FSOpen(filename string) int {
	if !mounted {
		return -1
	}
	f, err := fs.Open(filename)
	if err != nil {
		return -1
	}
	id := f.ID()
	files[id] = f
	return id
}

// FSClose closes fd. Returns 0 on success, -1 otherwise.
func FSClose(fd int) int {
	if !validFD(fd) {
		return -1
	}
	if err := files[fd].Close(); err != nil {
		return -1
	}
	files[fd] = nil
	return 0
}

// FSStat returns fd's current size in bytes, or -1.
func FSStat(fd int) int {
	if !validFD(fd) {
		return -1
	}
	sz, err := files[fd].Size()
	if err != nil {
		return -1
	}
	return int(sz)
}

// FSLseek repositions fd's offset to an absolute byte offset. Returns 0 on
// success, -1 otherwise.
func FSLseek(fd int, offset int) int {
	if !validFD(fd) {
		return -1
	}
	if _, err := files[fd].Seek(int64(offset), io.SeekStart); err != nil {
		return -1
	}
	return 0
}

// FSWrite writes buf to fd at its current offset, returning the number of
// bytes actually written (which may be less than len(buf) if the device
// ran out of free blocks — see fatfs.File.Write), or -1 on a hard error.
func FSWrite(fd int, buf []byte) int {
	if !validFD(fd) {
		return -1
	}
	n, err := files[fd].Write(buf)
	if err != nil {
		return -1
	}
	return n
}

// FSRead reads up to len(buf) bytes from fd at its current offset,
// returning 0 at end of file instead of -1, matching fs_read.
func FSRead(fd int, buf []byte) int {
	if !validFD(fd) {
		return -1
	}
	n, err := files[fd].Read(buf)
	if err != nil && err != io.EOF {
		return -1
	}
	return n
}
