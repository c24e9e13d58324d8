package fatfs_test

import (
	"fmt"
	"io"

	"github.com/ecs150fs/fatfs"
)

// memDevice is a minimal BlockDevice over a flat byte slice, enough to
// demonstrate the public API end to end.
type memDevice struct {
	buf       []byte
	blockSize int
}

func (d *memDevice) BlockSize() int     { return d.blockSize }
func (d *memDevice) BlockCount() uint32 { return uint32(len(d.buf) / d.blockSize) }
func (d *memDevice) ReadBlock(index uint32, dst []byte) error {
	off := int(index) * d.blockSize
	copy(dst, d.buf[off:off+d.blockSize])
	return nil
}
func (d *memDevice) WriteBlock(index uint32, src []byte) error {
	off := int(index) * d.blockSize
	copy(d.buf[off:off+d.blockSize], src)
	return nil
}

// newFormattedDevice writes a valid, empty filesystem image. Formatting a
// disk image is outside this package's scope (spec.md treats it as an
// external collaborator's job), so this example builds one by hand.
func newFormattedDevice() *memDevice {
	const blockSize = 512
	const dataBlocks = 8
	const fatBlocks = 1
	const rootBlock = 1 + fatBlocks
	const dataStart = rootBlock + 1
	const totalBlocks = dataStart + dataBlocks

	dev := &memDevice{buf: make([]byte, totalBlocks*blockSize), blockSize: blockSize}

	sb := make([]byte, blockSize)
	copy(sb, "ECS150FS")
	sb[8], sb[9] = byte(totalBlocks), byte(totalBlocks>>8)
	sb[10], sb[11] = byte(rootBlock), byte(rootBlock>>8)
	sb[12], sb[13] = byte(dataStart), byte(dataStart>>8)
	sb[14], sb[15] = byte(dataBlocks), byte(dataBlocks>>8)
	sb[16] = fatBlocks
	dev.WriteBlock(0, sb)

	fat := make([]byte, blockSize)
	fat[0], fat[1] = 0xFF, 0xFF // entry 0 holds the end-of-chain sentinel
	dev.WriteBlock(1, fat)

	dev.WriteBlock(rootBlock, make([]byte, blockSize))
	return dev
}

func ExampleFS() {
	dev := newFormattedDevice()

	var fs fatfs.FS
	if err := fs.Mount(dev, fatfs.ModeRW); err != nil {
		panic(err)
	}

	if err := fs.Create("newfile.txt"); err != nil {
		panic(err)
	}
	f, err := fs.Open("newfile.txt")
	if err != nil {
		panic(err)
	}
	if _, err := f.Write([]byte("Hello, World!")); err != nil {
		panic(err)
	}
	if err := f.Close(); err != nil {
		panic(err)
	}

	f, err = fs.Open("newfile.txt")
	if err != nil {
		panic(err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
	if err := f.Close(); err != nil {
		panic(err)
	}
	if err := fs.Unmount(); err != nil {
		panic(err)
	}
	// Output:
	// Hello, World!
}
