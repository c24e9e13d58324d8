package fatfs

import "errors"

// lba is an absolute block index on the underlying BlockDevice, as opposed
// to a fatIndex, which only has meaning inside the FAT chain. Keeping the
// two as distinct types makes a misplaced index a compile error instead of
// a runtime one.
type lba uint32

// BlockDevice is the out-of-scope collaborator this filesystem is built on
// top of: a fixed-size, fixed-block-size random access store. Mount reads
// the block size off the device once and never changes it afterward.
type BlockDevice interface {
	// ReadBlock reads the block at the given index into dst. len(dst) must
	// equal BlockSize().
	ReadBlock(index uint32, dst []byte) error
	// WriteBlock writes src to the block at the given index. len(src) must
	// equal BlockSize().
	WriteBlock(index uint32, src []byte) error
	// BlockCount reports the total number of blocks on the device.
	BlockCount() uint32
	// BlockSize reports the fixed size, in bytes, of every block.
	BlockSize() int
}

var errShortBlock = errors.New("fatfs: buffer length does not match device block size")

// readBlocks reads a contiguous run of blocks starting at start into dst,
// which must be exactly n*BlockSize() bytes long.
func readBlocks(dev BlockDevice, start lba, n int, dst []byte) error {
	bs := dev.BlockSize()
	if len(dst) != n*bs {
		return errShortBlock
	}
	for i := 0; i < n; i++ {
		if err := dev.ReadBlock(uint32(start)+uint32(i), dst[i*bs:(i+1)*bs]); err != nil {
			return err
		}
	}
	return nil
}

// writeBlocks writes a contiguous run of blocks starting at start from src,
// which must be exactly n*BlockSize() bytes long.
func writeBlocks(dev BlockDevice, start lba, n int, src []byte) error {
	bs := dev.BlockSize()
	if len(src) != n*bs {
		return errShortBlock
	}
	for i := 0; i < n; i++ {
		if err := dev.WriteBlock(uint32(start)+uint32(i), src[i*bs:(i+1)*bs]); err != nil {
			return err
		}
	}
	return nil
}
