package fatfs

import (
	"encoding/binary"
)

// rootEntry mirrors struct rootEntry in the original C reference: a fixed
// 32-byte slot, 16 bytes of NUL-terminated name, a 4-byte size, a 2-byte
// first-block pointer, and 10 reserved bytes. An entry with a zero first
// byte in its name is a free slot.
type rootEntry struct {
	name       [filenameMax]byte
	size       uint32
	firstBlock fatIndex
}

const (
	reOffName  = 0
	reOffSize  = 16
	reOffFirst = 20
)

func (e rootEntry) free() bool { return e.name[0] == 0 }

func (e rootEntry) nameString() string {
	n := 0
	for n < len(e.name) && e.name[n] != 0 {
		n++
	}
	return string(e.name[:n])
}

func (e rootEntry) encode(buf []byte) {
	copy(buf[reOffName:], e.name[:])
	binary.LittleEndian.PutUint32(buf[reOffSize:], e.size)
	binary.LittleEndian.PutUint16(buf[reOffFirst:], uint16(e.firstBlock))
}

func decodeRootEntry(buf []byte) rootEntry {
	var e rootEntry
	copy(e.name[:], buf[reOffName:reOffName+filenameMax])
	e.size = binary.LittleEndian.Uint32(buf[reOffSize:])
	e.firstBlock = fatIndex(binary.LittleEndian.Uint16(buf[reOffFirst:]))
	return e
}

// encodeName validates name against the decision in SPEC_FULL.md's open
// question 3 (the encoded name, excluding its terminating NUL, must fit in
// filenameMax-1 bytes) and returns the fixed-size NUL-terminated field.
func encodeName(name string) ([filenameMax]byte, result) {
	var out [filenameMax]byte
	if len(name) == 0 {
		return out, resultInvalidName
	}
	if len(name) > filenameMax-1 {
		return out, resultNameTooLong
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 {
			return out, resultInvalidName
		}
	}
	copy(out[:], name)
	return out, resultOK
}

// rootDirectory is the single fixed-size directory block, kept resident in
// memory for the duration of a mount exactly like the FAT.
type rootDirectory struct {
	entries [rootEntryCount]rootEntry
	dirty   bool
}

func (d *rootDirectory) decode(buf []byte) {
	for i := range d.entries {
		off := i * rootEntrySize
		if off+rootEntrySize > len(buf) {
			break
		}
		d.entries[i] = decodeRootEntry(buf[off : off+rootEntrySize])
	}
}

func (d *rootDirectory) encode(buf []byte) {
	for i, e := range d.entries {
		off := i * rootEntrySize
		if off+rootEntrySize > len(buf) {
			break
		}
		e.encode(buf[off : off+rootEntrySize])
	}
}

func (d *rootDirectory) lookup(name string) (int, bool) {
	for i, e := range d.entries {
		if !e.free() && e.nameString() == name {
			return i, true
		}
	}
	return -1, false
}

// create allocates the lowest-index free slot for name, matching the
// ascending-scan first-fit policy findEmptyFD uses in the C reference.
func (d *rootDirectory) create(name string) (int, result) {
	enc, res := encodeName(name)
	if res != resultOK {
		return -1, res
	}
	if _, found := d.lookup(name); found {
		return -1, resultNameExists
	}
	slot := -1
	for i, e := range d.entries {
		if e.free() {
			slot = i
			break
		}
	}
	if slot == -1 {
		return -1, resultRootFull
	}
	d.entries[slot] = rootEntry{name: enc, firstBlock: eoc}
	d.dirty = true
	return slot, resultOK
}

func (d *rootDirectory) freeCount() int {
	n := 0
	for _, e := range d.entries {
		if e.free() {
			n++
		}
	}
	return n
}

// clear resets slot to an empty entry. The caller is responsible for
// freeing the data chain first.
func (d *rootDirectory) clear(slot int) {
	d.entries[slot] = rootEntry{}
	d.dirty = true
}
