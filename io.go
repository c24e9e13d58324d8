package fatfs

// readChain reads the first blockCount blocks of the chain starting at
// first into a single bounce buffer, one whole-file-sized allocation per
// call, as spec.md's I/O engine describes, rather than the teacher's
// per-sector streaming read: this format's files are small enough that
// the original C reference (and the distilled spec modeled on it) just
// mallocs the whole file and reads it in one pass.
func (fs *FS) readChain(first fatIndex, blockCount int) ([]byte, error) {
	buf := make([]byte, blockCount*fs.blockSize)
	idx := first
	for i := 0; i < blockCount; i++ {
		if idx == eoc {
			break
		}
		off := i * fs.blockSize
		if err := fs.dev.ReadBlock(uint32(fs.dataBlock(idx)), buf[off:off+fs.blockSize]); err != nil {
			return nil, err
		}
		idx = fs.fat.entries[idx]
	}
	return buf, nil
}

// writeChain splices buf back across the chain starting at first, one
// block per device write call. len(buf) must be a multiple of the block
// size and the chain must already be long enough to hold it (Write always
// extends the chain before calling this).
func (fs *FS) writeChain(first fatIndex, buf []byte) error {
	idx := first
	for off := 0; off < len(buf); off += fs.blockSize {
		if idx == eoc {
			return errShortBlock
		}
		if err := fs.dev.WriteBlock(uint32(fs.dataBlock(idx)), buf[off:off+fs.blockSize]); err != nil {
			return err
		}
		idx = fs.fat.entries[idx]
	}
	return nil
}
