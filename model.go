// File model contains the structs which match the direct structures of the FAT filesystem.

package gofat

// BPB is the BIOS Parameter Block, the 36-byte common header at the start
// of every FAT volume's boot sector, followed by a variant-specific
// extended block occupying FATSpecificData.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// FAT16SpecificData is the extended BPB record used by FAT12 and FAT16.
type FAT16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeId       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// FAT32SpecificData is the extended BPB record used by FAT32. It is larger
// than the FAT12/16 record because FAT32 moves the root directory and the
// FAT size field into the extended area.
type FAT32SpecificData struct {
	FatSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      fatEntry
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is the 32-byte packed on-disk directory entry shared by
// files and directories alike.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// Directory entry attribute bits.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Name[0] sentinels.
const (
	entryFree    = 0x00
	entryDeleted = 0xE5
	// entryDeletedEscape is the byte a real leading 0xE5 character gets
	// rewritten to on disk, since 0xE5 as Name[0] would otherwise read
	// back as a deleted-entry marker.
	entryDeletedEscape = 0x05
)

// LongFilenameEntry is the VFAT long-filename entry layout. Gofat treats
// these as opaque - it never synthesizes them, but preserves any it finds
// verbatim across directory rewrites so foreign long names round-trip.
type LongFilenameEntry struct {
	Sequence  byte
	First     [5]uint16
	Attribute byte
	EntryType byte
	Checksum  byte
	Second    [6]uint16
	Zero      [2]byte
	Third     [2]uint16
}

// ExtendedEntryHeader pairs a raw EntryHeader with the long name gofat
// resolved for it while scanning a directory (empty if the entry had no
// associated, or an unsupported, long-name run).
type ExtendedEntryHeader struct {
	EntryHeader
	ExtendedName string
}

// firstCluster returns the entry's first cluster as a single value.
// FAT12/16 never populate FirstClusterHI so it is always zero there;
// folding it in unconditionally is safe for every variant.
func (h EntryHeader) firstCluster() fatEntry {
	return fatEntry(uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO))
}

func (h *EntryHeader) setFirstCluster(c fatEntry) {
	v := uint32(c)
	h.FirstClusterHI = uint16(v >> 16)
	h.FirstClusterLO = uint16(v & 0xFFFF)
}

// FSInfo is the FAT32-only FSInfo sector. The free-cluster count and
// next-free hints it carries are read for diagnostics only - gofat never
// trusts them when allocating and never writes them back.
type FSInfo struct {
	LeadSignature   uint32
	Reserved1       [480]byte
	StructSignature uint32
	FreeCount       uint32
	NextFree        uint32
	Reserved2       [12]byte
	TrailSignature  uint32
}

const (
	fsInfoLeadSignature   = 0x41615252
	fsInfoStructSignature = 0x61417272
	fsInfoTrailSignature  = 0xAA550000
)
