package gofat

import (
	"bytes"
	"encoding/binary"

	"github.com/kdwils/gofat/checkpoint"
)

const entrySize = 32

// readRawRoot returns every raw EntryHeader in the root directory, exactly
// as laid out on disk, including the entryFree terminator and every slot
// after it. Callers that need the filtered view (no terminator, no deleted slots)
// should use readRoot/readDir instead.
func (fs *Fs) readRawRoot() ([]EntryHeader, error) {
	if fs.geo.variant != FAT32 {
		size := int64(fs.geo.rootDirSectors) * int64(fs.geo.bytesPerSector)
		buf, err := fs.img.readAt(int64(fs.geo.firstRootDirSector)*int64(fs.geo.bytesPerSector), size)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrIO)
		}
		return decodeEntries(buf), nil
	}

	return fs.readRawChain(fs.geo.fat32Root)
}

// readRawChain concatenates every cluster of the chain starting at first
// and decodes it as a flat run of EntryHeaders.
func (fs *Fs) readRawChain(first fatEntry) ([]EntryHeader, error) {
	var all []EntryHeader
	for _, cluster := range fs.fat.chain(first) {
		buf, err := fs.readCluster(cluster)
		if err != nil {
			return nil, err
		}
		all = append(all, decodeEntries(buf)...)
	}
	return all, nil
}

func decodeEntries(buf []byte) []EntryHeader {
	count := len(buf) / entrySize
	entries := make([]EntryHeader, count)
	for i := 0; i < count; i++ {
		binary.Read(bytes.NewReader(buf[i*entrySize:(i+1)*entrySize]), binary.LittleEndian, &entries[i])
	}
	return entries
}

func encodeEntries(entries []EntryHeader) []byte {
	buf := &bytes.Buffer{}
	for _, e := range entries {
		binary.Write(buf, binary.LittleEndian, e)
	}
	return buf.Bytes()
}

// filterLive drops everything at and beyond the first entryFree
// terminator, and skips deleted (entryDeleted) slots. LFN entries are not
// returned themselves: each run is decoded into the ExtendedName of the
// short entry that follows it.
func filterLive(raw []EntryHeader) []ExtendedEntryHeader {
	var result []ExtendedEntryHeader
	var longNameRun []LongFilenameEntry

	flushLongName := func(entry EntryHeader) string {
		if len(longNameRun) == 0 {
			return ""
		}
		name := decodeLongName(longNameRun)
		longNameRun = nil
		return name
	}

	for _, e := range raw {
		if e.Name[0] == entryFree {
			break
		}
		if e.Name[0] == entryDeleted {
			longNameRun = nil
			continue
		}

		if e.Attribute&AttrLongName == AttrLongName {
			longNameRun = append(longNameRun, entryHeaderAsLFN(e))
			continue
		}

		result = append(result, ExtendedEntryHeader{
			EntryHeader:  e,
			ExtendedName: flushLongName(e),
		})
	}

	return result
}

func entryHeaderAsLFN(e EntryHeader) LongFilenameEntry {
	var lfn LongFilenameEntry
	binary.Read(bytes.NewReader(encodeEntries([]EntryHeader{e})), binary.LittleEndian, &lfn)
	return lfn
}

// decodeLongName reassembles a run of VFAT long-filename entries (already
// collected in on-disk, i.e. reverse-sequence, order) into the UTF-16 name
// they encode. Gofat only ever needs this to echo a foreign long name back
// out of ExtendedEntryHeader - it never writes LFN entries itself.
func decodeLongName(run []LongFilenameEntry) string {
	units := make([]uint16, 0, len(run)*13)
	for i := len(run) - 1; i >= 0; i-- {
		e := run[i]
		units = append(units, e.First[:]...)
		units = append(units, e.Second[:]...)
		units = append(units, e.Third[:]...)
	}

	for i, u := range units {
		if u == 0x0000 || u == 0xFFFF {
			units = units[:i]
			break
		}
	}

	return utf16ToString(units)
}

func utf16ToString(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if r >= 0xD800 && r <= 0xDBFF && i+1 < len(units) {
			r2 := rune(units[i+1])
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = ((r - 0xD800) << 10) | (r2 - 0xDC00) + 0x10000
				i++
			}
		}
		runes = append(runes, r)
	}
	return string(runes)
}

// readRoot returns the filtered (live, non-LFN) entries of the root
// directory.
func (fs *Fs) readRoot() ([]ExtendedEntryHeader, error) {
	raw, err := fs.readRawRoot()
	if err != nil {
		return nil, err
	}
	return filterLive(raw), nil
}

// readDir returns the filtered entries of the directory whose first
// cluster is given.
func (fs *Fs) readDir(cluster fatEntry) ([]ExtendedEntryHeader, error) {
	raw, err := fs.readRawChain(cluster)
	if err != nil {
		return nil, err
	}
	return filterLive(raw), nil
}

// entriesPerCluster reports how many 32-byte directory entries fit in a
// single cluster.
func (fs *Fs) entriesPerCluster() uint32 {
	return fs.geo.bytesPerCluster / entrySize
}

// insertRoot appends entry to the FAT12/16 fixed-size root directory
//. The root cannot grow - if there is no room,
// ErrDirectoryFull is returned.
func (fs *Fs) insertRoot(entry EntryHeader) error {
	raw, err := fs.readRawRoot()
	if err != nil {
		return err
	}

	live := liveOnly(raw)
	live = append(live, entry)

	if len(live) > int(fs.geo.rootDirEntries) {
		return checkpoint.From(ErrDirectoryFull)
	}

	padded := make([]EntryHeader, fs.geo.rootDirEntries)
	copy(padded, live)

	buf := encodeEntries(padded)
	offset := int64(fs.geo.firstRootDirSector) * int64(fs.geo.bytesPerSector)
	if err := fs.img.writeAt(offset, buf); err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	return nil
}

// insertChain appends entry to a cluster-chained directory (the FAT32
// root, or any subdirectory), growing it by one cluster when the new
// entry count crosses a cluster boundary.
func (fs *Fs) insertChain(first fatEntry, entry EntryHeader) error {
	chain := fs.fat.chain(first)
	raw, err := fs.readRawChain(first)
	if err != nil {
		return err
	}

	live := liveOnly(raw)
	live = append(live, entry)
	newSize := len(live)

	perCluster := int(fs.entriesPerCluster())
	newClusters := ceilDiv(newSize, perCluster)

	if newClusters > len(chain) {
		free, err := fs.fat.findFree(chain[len(chain)-1])
		if err != nil {
			return err
		}
		tail := chain[len(chain)-1]
		fs.fat.set(tail, free)
		fs.fat.set(free, fatEntry(eocBoundary(fs.geo.variant)))
		chain = append(chain, free)

		if err := fs.fat.flush(fs.img); err != nil {
			return err
		}
	}

	padded := make([]EntryHeader, len(chain)*perCluster)
	copy(padded, live)

	for i, cluster := range chain {
		buf := encodeEntries(padded[i*perCluster : (i+1)*perCluster])
		if err := fs.writeCluster(cluster, buf); err != nil {
			return err
		}
	}

	return nil
}

// insert dispatches to insertRoot or insertChain depending on whether
// parent is the FAT12/16 fixed root (parent == 0 by convention) or a
// cluster-chained directory.
func (fs *Fs) insert(parent fatEntry, entry EntryHeader) error {
	if fs.geo.variant != FAT32 && parent == 0 {
		return fs.insertRoot(entry)
	}
	if fs.geo.variant == FAT32 && parent == 0 {
		return fs.insertChain(fs.geo.fat32Root, entry)
	}
	return fs.insertChain(parent, entry)
}

// seedDotEntries writes "." and ".." as the first two entries of a
// freshly allocated subdirectory cluster and zero-fills the remainder.
// parent is 0 if the parent is the FAT12/16 fixed root, matching the
// on-disk convention.
func (fs *Fs) seedDotEntries(self, parent fatEntry, when fatDateTime) error {
	dot := EntryHeader{Name: toShortName("."), Attribute: AttrDirectory}
	dot.setFirstCluster(self)
	applyDateTime(&dot, when)

	dotdot := EntryHeader{Name: toShortName(".."), Attribute: AttrDirectory}
	dotdot.setFirstCluster(parent)
	applyDateTime(&dotdot, when)

	padded := make([]EntryHeader, fs.entriesPerCluster())
	padded[0] = dot
	padded[1] = dotdot

	return fs.writeCluster(self, encodeEntries(padded))
}

func liveOnly(raw []EntryHeader) []EntryHeader {
	var result []EntryHeader
	for _, e := range raw {
		if e.Name[0] == entryFree {
			break
		}
		if e.Name[0] == entryDeleted {
			continue
		}
		result = append(result, e)
	}
	return result
}

func ceilDiv(a, b int) int {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}
