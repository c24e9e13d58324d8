package fatfs

import "encoding/binary"

// fatIndex is an index into the FAT table. It doubles as a chain pointer:
// 0 means "unallocated", eoc means "end of chain", any other value is the
// index of the next block in the chain. Kept distinct from lba so a caller
// can never pass a FAT index where an absolute block number belongs.
type fatIndex uint16

// eoc is the end-of-chain sentinel. Entry 0 is reserved and always holds
// this value, matching FAT_EOC in the original C reference.
const eoc fatIndex = 0xFFFF

const fatEntrySize = 2 // bytes per entry, little-endian uint16

// fatTable is the whole FAT kept resident in memory for the duration of a
// mount, as spec.md's mount algorithm describes (malloc a buffer sized
// fat_block_count*block_size, read it once), rather than the teacher's
// single-sector "disk access window" cache: the teacher's window exists
// because a FAT32 table can be far larger than RAM, but this format's FAT
// is always small enough to hold entirely in memory, the same assumption
// original_source/libfs/fs.c makes with its single `uint16_t *FAT` malloc.
type fatTable struct {
	entries []fatIndex
	dirty   bool
}

func newFATTable(entryCount int) *fatTable {
	t := &fatTable{entries: make([]fatIndex, entryCount)}
	t.entries[0] = eoc
	return t
}

func (t *fatTable) decode(buf []byte) result {
	n := len(buf) / fatEntrySize
	if n > len(t.entries) {
		n = len(t.entries)
	}
	for i := 0; i < n; i++ {
		t.entries[i] = fatIndex(binary.LittleEndian.Uint16(buf[i*fatEntrySize:]))
	}
	if t.entries[0] != eoc {
		return resultBadFAT
	}
	return resultOK
}

func (t *fatTable) encode(buf []byte) {
	for i, e := range t.entries {
		off := i * fatEntrySize
		if off+fatEntrySize > len(buf) {
			break
		}
		binary.LittleEndian.PutUint16(buf[off:], uint16(e))
	}
}

// freeCount returns the number of entries, out of the full table, that hold
// the value 0. Entry 0 always holds eoc, never 0, so it is never counted
// here, yet it still counts against len(entries) wherever a caller turns
// this into a ratio -- the documented fat_free_ratio quirk carried over
// from fs_info.
func (t *fatTable) freeCount() int {
	n := 0
	for _, e := range t.entries {
		if e == 0 {
			n++
		}
	}
	return n
}

// findFree scans ascending from index 1 for the first unallocated entry,
// matching findEmptyFAT's linear first-fit scan in the C reference. It
// returns 0 (never a legal data index) when the table is full.
func (t *fatTable) findFree() fatIndex {
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i] == 0 {
			return fatIndex(i)
		}
	}
	return 0
}

// freeChain walks the chain starting at first, zeroing every entry it
// visits and invoking zero on each block index so callers can scrub the
// underlying data block too.
func (t *fatTable) freeChain(first fatIndex, zero func(fatIndex) error) error {
	idx := first
	for idx != eoc && idx != 0 {
		next := t.entries[idx]
		t.entries[idx] = 0
		t.dirty = true
		if zero != nil {
			if err := zero(idx); err != nil {
				return err
			}
		}
		idx = next
	}
	return nil
}

// extendChain appends up to n new blocks to the chain whose head is
// *first (eoc meaning the chain is currently empty), zero-filling each
// newly allocated block via zero before linking it in. It returns the
// number of blocks actually allocated, which may be less than n if the
// table runs out of free entries first.
//
// Blocks allocated before a failure are never rolled back: if *first was
// eoc and the first new block allocates successfully, *first is updated
// to point at it immediately, so a later failure in the same call can
// never lose that block. This is the corrected behavior described in
// SPEC_FULL.md's open question 2; the original C reference could revert
// first_block to eoc and drop an already-allocated block on a later
// failure in the same extend.
func (t *fatTable) extendChain(first *fatIndex, n int, zero func(fatIndex) error) int {
	if n <= 0 {
		return 0
	}
	var tail fatIndex
	hadExisting := *first != eoc
	if hadExisting {
		tail = *first
		for t.entries[tail] != eoc {
			tail = t.entries[tail]
		}
	}
	allocated := 0
	for allocated < n {
		idx := t.findFree()
		if idx == 0 {
			break
		}
		if zero != nil {
			if err := zero(idx); err != nil {
				break
			}
		}
		t.entries[idx] = eoc
		t.dirty = true
		if !hadExisting && allocated == 0 {
			*first = idx
		} else {
			t.entries[tail] = idx
		}
		tail = idx
		allocated++
	}
	return allocated
}
