package fatfs

import (
	"fmt"
	"io"
	"log/slog"
)

// Mode is a mount-wide access bitmask, independent of any per-file
// permission bit (the format has none, per the Non-goals): it governs
// whether Create/Delete/Write and Read are allowed at all for the
// lifetime of the mount, the same role ModeRead/ModeWrite/ModeRW play in
// the teacher's exported API.
type Mode uint8

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeRW = ModeRead | ModeWrite
)

func (m Mode) valid() bool {
	return m != 0 && m & ^ModeRW == 0
}

// FS is a mounted instance of the filesystem. The zero value is ready for
// Mount, and an FS can be mounted again after Unmount; it is not safe for
// concurrent use by multiple
// goroutines, matching the teacher's own FS/File types and spec.md §5.
type FS struct {
	mounted   bool
	dev       BlockDevice
	mode      Mode
	blockSize int
	sb        superblock
	fat       *fatTable
	root      rootDirectory
	handles   handleTable
	log       *slog.Logger
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func (fs *FS) dataBlock(idx fatIndex) lba {
	return lba(fs.sb.dataStartIndex) + lba(idx)
}

// Mount reads the superblock, FAT, and root directory off dev into memory.
// dev supplies the block size for the lifetime of the mount; it is never
// re-queried afterward.
func (fs *FS) Mount(dev BlockDevice, mode Mode) error {
	const op = "mount"
	if fs.mounted {
		return newErr(op, resultAlreadyMounted)
	}
	if !mode.valid() {
		return newErr(op, resultInvalidParameter)
	}
	bs := dev.BlockSize()
	if bs < sbMinBlockSize {
		return newErr(op, resultInvalidParameter)
	}

	sbBuf := make([]byte, bs)
	if err := dev.ReadBlock(0, sbBuf); err != nil {
		return newErr(op, resultDiskErr)
	}
	sb, res := decodeSuperblock(sbBuf)
	if res != resultOK {
		fs.warn("mount: bad superblock signature")
		return newErr(op, res)
	}
	if uint32(sb.totalBlocks) != dev.BlockCount() {
		fs.warn("mount: block count mismatch", slog.Int("superblock", int(sb.totalBlocks)), slog.Int("device", int(dev.BlockCount())))
		return newErr(op, resultBlockCountMismatch)
	}

	fatRaw := make([]byte, int(sb.fatBlockCount)*bs)
	if err := readBlocks(dev, lba(1), int(sb.fatBlockCount), fatRaw); err != nil {
		return newErr(op, resultDiskErr)
	}
	fat := newFATTable(int(sb.dataBlockCount))
	if res := fat.decode(fatRaw); res != resultOK {
		fs.warn("mount: FAT entry 0 is not the end-of-chain sentinel")
		return newErr(op, res)
	}

	rootRaw := make([]byte, bs)
	if err := dev.ReadBlock(uint32(sb.rootBlockIndex), rootRaw); err != nil {
		return newErr(op, resultDiskErr)
	}
	var root rootDirectory
	root.decode(rootRaw)

	fs.dev = dev
	fs.mode = mode
	fs.blockSize = bs
	fs.sb = sb
	fs.fat = fat
	fs.root = root
	fs.handles = handleTable{}
	fs.mounted = true
	fs.info("mounted", slog.Int("total_blocks", int(sb.totalBlocks)), slog.Int("data_blocks", int(sb.dataBlockCount)))
	return nil
}

// Unmount flushes the FAT and root directory back to the device and
// detaches it. It fails if any file is still open, matching fs_umount.
func (fs *FS) Unmount() error {
	const op = "umount"
	if !fs.mounted {
		return newErr(op, resultNotMounted)
	}
	if fs.handles.count() > 0 {
		return newErr(op, resultOpenHandles)
	}

	sbBuf := fs.sb.encode(fs.blockSize)
	if err := fs.dev.WriteBlock(0, sbBuf); err != nil {
		return newErr(op, resultDiskErr)
	}
	fatRaw := make([]byte, int(fs.sb.fatBlockCount)*fs.blockSize)
	fs.fat.encode(fatRaw)
	if err := writeBlocks(fs.dev, lba(1), int(fs.sb.fatBlockCount), fatRaw); err != nil {
		return newErr(op, resultDiskErr)
	}
	rootRaw := make([]byte, fs.blockSize)
	fs.root.encode(rootRaw)
	if err := fs.dev.WriteBlock(uint32(fs.sb.rootBlockIndex), rootRaw); err != nil {
		return newErr(op, resultDiskErr)
	}

	fs.info("unmounted")
	fs.mounted = false
	fs.dev = nil
	return nil
}

func (fs *FS) checkMounted(op string) error {
	if !fs.mounted {
		return newErr(op, resultNotMounted)
	}
	return nil
}

// Stats is a snapshot of the values printed by WriteInfo.
type Stats struct {
	TotalBlocks    uint16
	FATBlockCount  uint8
	RootBlockIndex uint16
	DataStartIndex uint16
	DataBlockCount uint16
	FATFree        int
	RootFree       int
}

// Info reports the current superblock and free-space counters.
//
// FATFree is computed over the full [0, DataBlockCount) index range,
// matching fs_info in the original C reference. Entry 0 is reserved and
// always holds the end-of-chain sentinel, so it never contributes to
// FATFree, but it still counts against the DataBlockCount denominator:
// the reported ratio tops out at (DataBlockCount-1)/DataBlockCount on a
// freshly formatted, empty filesystem. This is preserved verbatim rather
// than "fixed" to divide by DataBlockCount-1, for bit compatibility with
// fs_info (see SPEC_FULL.md's open question 1).
func (fs *FS) Info() (Stats, error) {
	if err := fs.checkMounted("info"); err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalBlocks:    fs.sb.totalBlocks,
		FATBlockCount:  fs.sb.fatBlockCount,
		RootBlockIndex: fs.sb.rootBlockIndex,
		DataStartIndex: fs.sb.dataStartIndex,
		DataBlockCount: fs.sb.dataBlockCount,
		FATFree:        fs.fat.freeCount(),
		RootFree:       fs.root.freeCount(),
	}, nil
}

// WriteInfo writes the exact fs_info report format to w.
func (fs *FS) WriteInfo(w io.Writer) error {
	st, err := fs.Info()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w,
		"FS Info:\n"+
			"total_blk_count=%d\n"+
			"fat_blk_count=%d\n"+
			"rdir_blk=%d\n"+
			"data_blk=%d\n"+
			"data_blk_count=%d\n"+
			"fat_free_ratio=%d/%d\n"+
			"rdir_free_ratio=%d/%d\n",
		st.TotalBlocks, st.FATBlockCount, st.RootBlockIndex, st.DataStartIndex,
		st.DataBlockCount, st.FATFree, st.DataBlockCount, st.RootFree, rootEntryCount)
	return err
}

// DirEntry is one line of a WriteLs listing.
type DirEntry struct {
	Name       string
	Size       uint32
	FirstBlock uint16
}

// Ls lists every occupied root directory slot in slot order.
func (fs *FS) Ls() ([]DirEntry, error) {
	if err := fs.checkMounted("ls"); err != nil {
		return nil, err
	}
	var out []DirEntry
	for _, e := range fs.root.entries {
		if e.free() {
			continue
		}
		out = append(out, DirEntry{Name: e.nameString(), Size: e.size, FirstBlock: uint16(e.firstBlock)})
	}
	return out, nil
}

// WriteLs writes the exact fs_ls report format to w.
func (fs *FS) WriteLs(w io.Writer) error {
	entries, err := fs.Ls()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "FS Ls:"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "file: %s, size: %d, data_blk: %d\n", e.Name, e.Size, e.FirstBlock); err != nil {
			return err
		}
	}
	return nil
}

// Create adds an empty file named name to the root directory.
func (fs *FS) Create(name string) error {
	const op = "create"
	if err := fs.checkMounted(op); err != nil {
		return err
	}
	if fs.mode&ModeWrite == 0 {
		return newErr(op, resultNotWritable)
	}
	_, res := fs.root.create(name)
	if res != resultOK {
		fs.warn("create failed", slog.String("name", name), slog.String("reason", res.String()))
		return newErr(op, res)
	}
	fs.debug("created file", slog.String("name", name))
	return nil
}

// Delete removes name and frees its data chain. It does not check whether
// the file is currently open, matching fs_delete in the original C
// reference.
func (fs *FS) Delete(name string) error {
	const op = "delete"
	if err := fs.checkMounted(op); err != nil {
		return err
	}
	if fs.mode&ModeWrite == 0 {
		return newErr(op, resultNotWritable)
	}
	slot, found := fs.root.lookup(name)
	if !found {
		return newErr(op, resultNoFile)
	}
	entry := fs.root.entries[slot]
	if err := fs.fat.freeChain(entry.firstBlock, fs.zeroBlock); err != nil {
		return newErr(op, resultDiskErr)
	}
	fs.root.clear(slot)
	fs.debug("deleted file", slog.String("name", name))
	return nil
}

func (fs *FS) zeroBlock(idx fatIndex) error {
	zero := make([]byte, fs.blockSize)
	return fs.dev.WriteBlock(uint32(fs.dataBlock(idx)), zero)
}
