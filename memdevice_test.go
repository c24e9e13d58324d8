package fatfs

import "errors"

// memDevice is a flat, in-memory BlockDevice fake, grounded on the
// teacher's BlockByteSlice in vfs_test.go: a single []byte buffer sliced
// by block index, with the same "reject misaligned/out-of-range access"
// discipline. Trimmed of the teacher's blkIdxer and sparse BlockMap
// variant, since every test image here is small enough for a flat slice.
type memDevice struct {
	buf       []byte
	blockSize int
}

func newMemDevice(blockCount, blockSize int) *memDevice {
	return &memDevice{buf: make([]byte, blockCount*blockSize), blockSize: blockSize}
}

func (d *memDevice) BlockSize() int   { return d.blockSize }
func (d *memDevice) BlockCount() uint32 { return uint32(len(d.buf) / d.blockSize) }

func (d *memDevice) ReadBlock(index uint32, dst []byte) error {
	if len(dst) != d.blockSize {
		return errors.New("memDevice: dst size does not match block size")
	}
	off := int(index) * d.blockSize
	if off+d.blockSize > len(d.buf) {
		return errors.New("memDevice: read past end of device")
	}
	copy(dst, d.buf[off:off+d.blockSize])
	return nil
}

func (d *memDevice) WriteBlock(index uint32, src []byte) error {
	if len(src) != d.blockSize {
		return errors.New("memDevice: src size does not match block size")
	}
	off := int(index) * d.blockSize
	if off+d.blockSize > len(d.buf) {
		return errors.New("memDevice: write past end of device")
	}
	copy(d.buf[off:off+d.blockSize], src)
	return nil
}

// newTestImage builds a freshly formatted, valid device with room for
// dataBlockCount data blocks. Formatting a disk image is explicitly out of
// this module's scope (spec.md §1(c) treats it as an external
// collaborator), so this lives in the test file rather than the package:
// it plays the same role an external mkfs tool would for a real caller.
func newTestImage(blockSize, dataBlockCount int) *memDevice {
	fatBlockCount := int(ceilDiv(int64(dataBlockCount)*fatEntrySize, int64(blockSize)))
	if fatBlockCount < 1 {
		fatBlockCount = 1
	}
	rootBlockIndex := 1 + fatBlockCount
	dataStartIndex := rootBlockIndex + 1
	totalBlocks := dataStartIndex + dataBlockCount

	dev := newMemDevice(totalBlocks, blockSize)

	sb := superblock{
		totalBlocks:    uint16(totalBlocks),
		rootBlockIndex: uint16(rootBlockIndex),
		dataStartIndex: uint16(dataStartIndex),
		dataBlockCount: uint16(dataBlockCount),
		fatBlockCount:  uint8(fatBlockCount),
	}
	must(dev.WriteBlock(0, sb.encode(blockSize)))

	fat := newFATTable(dataBlockCount)
	fatRaw := make([]byte, fatBlockCount*blockSize)
	fat.encode(fatRaw)
	must(writeBlocks(dev, lba(1), fatBlockCount, fatRaw))

	root := make([]byte, blockSize)
	must(dev.WriteBlock(uint32(rootBlockIndex), root))

	return dev
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
