package gofat

import (
	"bytes"
	"encoding/binary"

	"github.com/kdwils/gofat/checkpoint"
)

// geometry holds everything derived from the BPB at mount time.
// Once computed it never changes for the lifetime of a mount.
type geometry struct {
	bpb BPB

	variant FATType

	bytesPerSector    uint16
	sectorsPerCluster uint8
	bytesPerCluster   uint32

	sectorsPerFAT      uint32
	fatRegionSectors    uint32
	firstFATSector      uint32
	firstRootDirSector  uint32
	rootDirSectors      uint32
	rootDirEntries      uint16
	firstDataSector     uint32

	totalSectors  uint32
	totalClusters uint32

	// fat32Root is the root directory's first cluster, valid only when
	// variant == FAT32.
	fat32Root fatEntry

	// fat32FSInfoSector is the absolute sector number of the FSInfo
	// structure, valid only when variant == FAT32.
	fat32FSInfoSector uint32
}

// parseGeometry parses the first 512 bytes of the image (the boot sector)
// as a BPB and derives the region layout and cluster geometry. skipChecks
// disables the sanity checks that would otherwise reject a non-standard
// but still decodable volume.
func parseGeometry(sector0 []byte, skipChecks bool) (*geometry, error) {
	var bpb BPB
	if err := binary.Read(bytes.NewReader(sector0), binary.LittleEndian, &bpb); err != nil {
		return nil, checkpoint.Wrap(err, ErrInvalidFormat)
	}

	if !skipChecks {
		if err := validateBPB(bpb); err != nil {
			return nil, err
		}
	}

	g := &geometry{bpb: bpb}

	g.bytesPerSector = bpb.BytesPerSector
	g.sectorsPerCluster = bpb.SectorsPerCluster
	g.bytesPerCluster = uint32(bpb.BytesPerSector) * uint32(bpb.SectorsPerCluster)
	g.rootDirEntries = bpb.RootEntryCount

	if bpb.FATSize16 != 0 {
		g.sectorsPerFAT = uint32(bpb.FATSize16)
	} else {
		var fat32 FAT32SpecificData
		if err := binary.Read(bytes.NewReader(bpb.FATSpecificData[:]), binary.LittleEndian, &fat32); err != nil {
			return nil, checkpoint.Wrap(err, ErrInvalidFormat)
		}
		g.sectorsPerFAT = fat32.FatSize
		g.fat32Root = fat32.RootCluster
		g.fat32FSInfoSector = uint32(fat32.FSInfo)
	}

	g.fatRegionSectors = uint32(bpb.NumFATs) * g.sectorsPerFAT
	g.firstFATSector = uint32(bpb.ReservedSectorCount)
	g.firstRootDirSector = g.firstFATSector + g.fatRegionSectors

	g.rootDirSectors = (uint32(bpb.RootEntryCount)*32 + uint32(bpb.BytesPerSector) - 1) / uint32(bpb.BytesPerSector)
	g.firstDataSector = g.firstRootDirSector + g.rootDirSectors

	if bpb.TotalSectors16 != 0 {
		g.totalSectors = uint32(bpb.TotalSectors16)
	} else {
		g.totalSectors = bpb.TotalSectors32
	}

	if g.sectorsPerCluster == 0 {
		return nil, checkpoint.From(ErrInvalidFormat)
	}
	g.totalClusters = (g.totalSectors - g.firstDataSector) / uint32(g.sectorsPerCluster)

	g.variant = classify(g.totalClusters)

	return g, nil
}

// classify derives the FAT variant solely from the cluster count, using
// the FAT specification's own thresholds.
func classify(totalClusters uint32) FATType {
	switch {
	case totalClusters < 4085:
		return FAT12
	case totalClusters < 65525:
		return FAT16
	default:
		return FAT32
	}
}

func isPowerOfTwo(v uint8) bool {
	return v != 0 && v&(v-1) == 0
}

// validateBPB rejects geometry combinations that cannot form a valid
// volume, returning InvalidFormat. It intentionally does not attempt full
// boot-sector validation (jump instructions, signatures) - that is out of
// scope for this driver.
func validateBPB(bpb BPB) error {
	switch bpb.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.From(ErrInvalidFormat)
	}

	if !isPowerOfTwo(bpb.SectorsPerCluster) {
		return checkpoint.From(ErrInvalidFormat)
	}

	if bpb.NumFATs == 0 {
		return checkpoint.From(ErrInvalidFormat)
	}

	return nil
}
