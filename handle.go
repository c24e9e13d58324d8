package fatfs

// openHandle is one slot of the 32-entry open-file table: which root
// directory entry it refers to and the caller's current byte offset into
// that file.
type openHandle struct {
	used    bool
	rootIdx int
	offset  int64
}

type handleTable struct {
	slots [handleTableSize]openHandle
}

func (t *handleTable) count() int {
	n := 0
	for _, h := range t.slots {
		if h.used {
			n++
		}
	}
	return n
}

// open reserves the lowest-index free slot for rootIdx, matching
// findEmptyFD's ascending first-fit scan.
func (t *handleTable) open(rootIdx int) (int, result) {
	for i, h := range t.slots {
		if !h.used {
			t.slots[i] = openHandle{used: true, rootIdx: rootIdx}
			return i, resultOK
		}
	}
	return -1, resultTooManyOpenFiles
}

func (t *handleTable) valid(id int) bool {
	return id >= 0 && id < len(t.slots) && t.slots[id].used
}

func (t *handleTable) close(id int) result {
	if !t.valid(id) {
		return resultInvalidHandle
	}
	t.slots[id] = openHandle{}
	return resultOK
}

// referencing returns every open handle id currently pointing at rootIdx.
// Unused by delete today (this format has no notion of forbidding deletion
// of a file that is still open; the original C reference does not forbid
// it either, so neither do we) but kept for callers that want to know.
func (t *handleTable) referencing(rootIdx int) []int {
	var ids []int
	for i, h := range t.slots {
		if h.used && h.rootIdx == rootIdx {
			ids = append(ids, i)
		}
	}
	return ids
}
