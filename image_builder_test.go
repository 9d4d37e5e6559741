package gofat

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// builtImage bundles a synthetic, byte-exact FAT image together with the
// geometry constants used to build it, so end-to-end tests can locate
// clusters and FAT entries without re-deriving the layout.
type builtImage struct {
	disk *memDisk

	bytesPerSector    uint16
	sectorsPerCluster uint8
	bytesPerCluster   uint32

	firstFATSector  uint32
	sectorsPerFAT   uint32
	numFATs         uint8
	firstDataSector uint32

	rootCluster fatEntry // 0 for FAT12/16 fixed root
}

func writeBPBCommon(t *testing.T, bpb BPB) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, bpb); err != nil {
		t.Fatalf("encode BPB: %v", err)
	}
	return buf.Bytes()
}

func packFATSpecific(t *testing.T, data interface{}) [54]byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		t.Fatalf("encode FAT specific data: %v", err)
	}
	var out [54]byte
	copy(out[:], buf.Bytes())
	return out
}

// buildFAT12Image returns a ~96-cluster volume (classified FAT12) with a
// 16-entry fixed root directory, sized so the test only ever touches a
// handful of kilobytes.
func buildFAT12Image(t *testing.T) *builtImage {
	t.Helper()
	return buildFAT1216Image(t, 16, 96)
}

// buildFAT16Image returns a 5000-cluster volume (classified FAT16) with a
// 512-entry fixed root directory.
func buildFAT16Image(t *testing.T) *builtImage {
	t.Helper()
	return buildFAT1216Image(t, 512, 5000)
}

func buildFAT1216Image(t *testing.T, rootEntries uint16, totalClusters uint32) *builtImage {
	t.Helper()

	const bytesPerSector = 512
	const sectorsPerCluster = 1
	const reservedSectors = 1
	const numFATs = 2

	rootDirSectors := (uint32(rootEntries)*32 + bytesPerSector - 1) / bytesPerSector

	var sectorsPerFAT uint32
	if totalClusters < 4085 {
		// FAT12: 1.5 bytes/entry.
		sectorsPerFAT = (totalClusters*3/2 + bytesPerSector - 1) / bytesPerSector
	} else {
		sectorsPerFAT = (totalClusters*2 + bytesPerSector - 1) / bytesPerSector
	}
	if sectorsPerFAT == 0 {
		sectorsPerFAT = 1
	}

	firstFATSector := uint32(reservedSectors)
	firstRootDirSector := firstFATSector + numFATs*sectorsPerFAT
	firstDataSector := firstRootDirSector + rootDirSectors
	totalSectors := firstDataSector + totalClusters*sectorsPerCluster

	bpb := BPB{
		BSOEMName:           [8]byte{'G', 'O', 'F', 'A', 'T', ' ', ' ', ' '},
		BytesPerSector:      bytesPerSector,
		SectorsPerCluster:   sectorsPerCluster,
		ReservedSectorCount: uint16(reservedSectors),
		NumFATs:             numFATs,
		RootEntryCount:      rootEntries,
		TotalSectors16:      uint16(totalSectors),
		Media:               0xF8,
		FATSize16:           uint16(sectorsPerFAT),
	}
	fat16 := FAT16SpecificData{
		BSDriveNumber:   0x80,
		BSBootSignature: 0x29,
		BSVolumeId:      0x12345678,
		BSVolumeLabel:   [11]byte{'N', 'O', ' ', 'N', 'A', 'M', 'E', ' ', ' ', ' ', ' '},
	}
	bpb.FATSpecificData = packFATSpecific(t, fat16)

	disk := newMemDisk(int(totalSectors) * bytesPerSector)
	if _, err := disk.Write(writeBPBCommon(t, bpb)); err != nil {
		t.Fatalf("write BPB: %v", err)
	}

	zero := make([]byte, int(numFATs)*int(sectorsPerFAT)*bytesPerSector)
	disk.Seek(int64(firstFATSector)*bytesPerSector, 0)
	disk.Write(zero)

	rootZero := make([]byte, rootDirSectors*bytesPerSector)
	disk.Seek(int64(firstRootDirSector)*bytesPerSector, 0)
	disk.Write(rootZero)

	return &builtImage{
		disk:              disk,
		bytesPerSector:    bytesPerSector,
		sectorsPerCluster: sectorsPerCluster,
		bytesPerCluster:   bytesPerSector * sectorsPerCluster,
		firstFATSector:    firstFATSector,
		sectorsPerFAT:     sectorsPerFAT,
		numFATs:           numFATs,
		firstDataSector:   firstDataSector,
	}
}

// buildFAT32Image returns a 66000-cluster volume (classified FAT32) with a
// single-cluster root directory at cluster 2.
func buildFAT32Image(t *testing.T) *builtImage {
	t.Helper()

	const bytesPerSector = 512
	const sectorsPerCluster = 1
	const reservedSectors = 32
	const numFATs = 2
	const totalClusters = 66000
	const rootCluster = 2

	sectorsPerFAT := uint32((totalClusters*4 + bytesPerSector - 1) / bytesPerSector)

	firstFATSector := uint32(reservedSectors)
	firstDataSector := firstFATSector + numFATs*sectorsPerFAT
	totalSectors := firstDataSector + totalClusters*sectorsPerCluster

	bpb := BPB{
		BSOEMName:           [8]byte{'G', 'O', 'F', 'A', 'T', ' ', ' ', ' '},
		BytesPerSector:      bytesPerSector,
		SectorsPerCluster:   sectorsPerCluster,
		ReservedSectorCount: uint16(reservedSectors),
		NumFATs:             numFATs,
		RootEntryCount:      0,
		Media:               0xF8,
		FATSize16:           0,
		TotalSectors32:      totalSectors,
	}
	fat32 := FAT32SpecificData{
		FatSize:         sectorsPerFAT,
		RootCluster:     rootCluster,
		FSInfo:          1,
		BkBootSector:    6,
		BSDriveNumber:   0x80,
		BSBootSignature: 0x29,
		BSVolumeID:      0x87654321,
		BSVolumeLabel:   [11]byte{'N', 'O', ' ', 'N', 'A', 'M', 'E', ' ', ' ', ' ', ' '},
	}
	bpb.FATSpecificData = packFATSpecific(t, fat32)

	disk := newMemDisk(int(totalSectors) * bytesPerSector)
	if _, err := disk.Write(writeBPBCommon(t, bpb)); err != nil {
		t.Fatalf("write BPB: %v", err)
	}

	zero := make([]byte, int(numFATs)*int(sectorsPerFAT)*bytesPerSector)
	disk.Seek(int64(firstFATSector)*bytesPerSector, 0)
	disk.Write(zero)

	rootOffset := int64(firstDataSector)*bytesPerSector + int64(rootCluster-2)*sectorsPerCluster*bytesPerSector
	disk.Seek(rootOffset, 0)
	disk.Write(make([]byte, sectorsPerCluster*bytesPerSector))

	// Mark the root's own cluster end-of-chain, like a real FAT32 image.
	markFAT32EntryEOC(t, disk, firstFATSector, bytesPerSector, rootCluster)

	return &builtImage{
		disk:              disk,
		bytesPerSector:    bytesPerSector,
		sectorsPerCluster: sectorsPerCluster,
		bytesPerCluster:   bytesPerSector * sectorsPerCluster,
		firstFATSector:    firstFATSector,
		sectorsPerFAT:     sectorsPerFAT,
		numFATs:           numFATs,
		firstDataSector:   firstDataSector,
		rootCluster:       rootCluster,
	}
}

func markFAT32EntryEOC(t *testing.T, disk *memDisk, firstFATSector uint32, bytesPerSector uint16, cluster uint32) {
	t.Helper()
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], eocBoundary(FAT32))
	disk.Seek(int64(firstFATSector)*int64(bytesPerSector)+int64(cluster)*4, 0)
	if _, err := disk.Write(raw[:]); err != nil {
		t.Fatalf("mark FAT32 EOC: %v", err)
	}
}

func mustMount(t *testing.T, bi *builtImage) *Fs {
	t.Helper()
	fs, err := New(bi.disk)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return fs
}
