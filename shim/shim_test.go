package shim

import (
	"testing"

	"github.com/ecs150fs/fatfs"
	"github.com/stretchr/testify/require"
)

// memDevice is a minimal flat BlockDevice fake, duplicated locally rather
// than exported from the core package, since the shim is meant to be
// usable with any BlockDevice implementation a caller supplies.
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

func newFormattedDevice(t *testing.T) *memDevice {
	t.Helper()
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
	require.NoError(t, dev.WriteBlock(0, sb))

	fat := make([]byte, blockSize)
	fat[0], fat[1] = 0xFF, 0xFF
	require.NoError(t, dev.WriteBlock(1, fat))
	require.NoError(t, dev.WriteBlock(rootBlock, make([]byte, blockSize)))
	return dev
}

// resetGlobals undoes shim's process-wide mount state between tests, since
// the package intentionally mirrors fs.c's single global filesystem.
func resetGlobals() {
	fs = fatfs.FS{}
	mounted = false
	files = [maxOpenFiles]*fatfs.File{}
}

func TestShimRoundTrip(t *testing.T) {
	resetGlobals()
	dev := newFormattedDevice(t)

	require.Equal(t, 0, FSMount(dev))
	require.Equal(t, -1, FSMount(dev), "double mount must fail")

	require.Equal(t, 0, FSCreate("greeting"))
	require.Equal(t, -1, FSCreate("greeting"), "duplicate create must fail")

	fd := FSOpen("greeting")
	require.GreaterOrEqual(t, fd, 0)

	n := FSWrite(fd, []byte("hi there"))
	require.Equal(t, len("hi there"), n)

	require.Equal(t, 0, FSLseek(fd, 0))
	require.Equal(t, len("hi there"), FSStat(fd))

	buf := make([]byte, 32)
	n = FSRead(fd, buf)
	require.Equal(t, "hi there", string(buf[:n]))

	require.Equal(t, 0, FSClose(fd))
	require.Equal(t, -1, FSClose(fd), "double close must fail")

	require.Equal(t, 0, FSUmount(), "every handle is closed, unmount must succeed")
	resetGlobals()
}

func TestShimUmountRejectsOpenFiles(t *testing.T) {
	resetGlobals()
	dev := newFormattedDevice(t)
	require.Equal(t, 0, FSMount(dev))
	require.Equal(t, 0, FSCreate("f"))
	fd := FSOpen("f")
	require.GreaterOrEqual(t, fd, 0)

	require.Equal(t, -1, FSUmount())

	require.Equal(t, 0, FSClose(fd))
	require.Equal(t, 0, FSUmount())
}
