package gofat

import (
	"encoding/binary"

	"github.com/kdwils/gofat/checkpoint"
)

// FATType tags which of the three on-disk encodings a mounted volume uses.
// It is determined solely from the cluster count at mount time.
type FATType uint8

const (
	FAT12 FATType = iota
	FAT16
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// fatEntry is a cluster number or a raw FAT table value, depending on
// context. It is always a plain 32-bit quantity - the variant-specific
// packing only exists on disk and inside fatTable, never in the exported
// API.
type fatEntry uint32

// eocBoundary returns the smallest raw value that signals end-of-chain for
// the given variant, using the FAT specification's own thresholds rather
// than the looser values seen across some historical implementations.
func eocBoundary(t FATType) uint32 {
	switch t {
	case FAT12:
		return 0x0FF8
	case FAT16:
		return 0xFFF8
	case FAT32:
		return 0x0FFFFFF8
	default:
		return 0
	}
}

// badClusterMarker returns the single reserved "bad cluster" value for the
// variant. It reads as end-of-chain but is excluded from allocation.
func badClusterMarker(t FATType) uint32 {
	switch t {
	case FAT12:
		return 0x0FF7
	case FAT16:
		return 0xFFF7
	case FAT32:
		return 0x0FFFFFF7
	default:
		return 0
	}
}

func variantMask(t FATType) uint32 {
	switch t {
	case FAT12:
		return 0x0FFF
	case FAT16:
		return 0xFFFF
	case FAT32:
		return 0x0FFFFFFF
	default:
		return 0
	}
}

// fatTable is the in-memory mirror of the primary FAT region. It is the
// authoritative copy during a mount - every get/set operates against this
// buffer, and flush writes it out to every on-disk copy.
type fatTable struct {
	variant FATType
	buf     []byte

	firstFATSector   uint32
	sectorsPerFAT    uint32
	bytesPerSector   uint16
	numFATs          uint8
	totalClusters    uint32
	endOfChain       fatEntry
}

// loadFATTable reads the primary FAT region (first of numFATs copies) from
// the image into memory.
func loadFATTable(img *imageIO, variant FATType, firstFATSector, sectorsPerFAT uint32, bytesPerSector uint16, numFATs uint8, totalClusters uint32) (*fatTable, error) {
	size := int64(sectorsPerFAT) * int64(bytesPerSector)
	buf, err := img.readAt(int64(firstFATSector)*int64(bytesPerSector), size)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	t := &fatTable{
		variant:        variant,
		buf:            buf,
		firstFATSector: firstFATSector,
		sectorsPerFAT:  sectorsPerFAT,
		bytesPerSector: bytesPerSector,
		numFATs:        numFATs,
		totalClusters:  totalClusters,
	}
	t.endOfChain = fatEntry(t.rawGet(1) & variantMask(variant))

	return t, nil
}

// rawGet returns the raw, variant-decoded value stored at FAT index n,
// without any end-of-chain interpretation.
func (t *fatTable) rawGet(n fatEntry) uint32 {
	idx := uint32(n)
	switch t.variant {
	case FAT12:
		offset := idx + idx/2
		word := binary.LittleEndian.Uint16(t.buf[offset : offset+2])
		if idx%2 == 0 {
			return uint32(word & 0x0FFF)
		}
		return uint32(word>>4) & 0x0FFF
	case FAT16:
		offset := idx * 2
		return uint32(binary.LittleEndian.Uint16(t.buf[offset : offset+2]))
	case FAT32:
		offset := idx * 4
		return binary.LittleEndian.Uint32(t.buf[offset:offset+4]) & 0x0FFFFFFF
	default:
		return 0
	}
}

// get returns the next-link of cluster n.
func (t *fatTable) get(n fatEntry) fatEntry {
	return fatEntry(t.rawGet(n))
}

// set writes v as the next-link of cluster n. FAT12 updates only the 12
// bits belonging to n inside the shared 16-bit word; FAT32 preserves the
// top 4 reserved bits of the existing 32-bit entry.
func (t *fatTable) set(n fatEntry, v fatEntry) {
	idx := uint32(n)
	value := uint32(v)

	switch t.variant {
	case FAT12:
		offset := idx + idx/2
		word := binary.LittleEndian.Uint16(t.buf[offset : offset+2])
		if idx%2 == 0 {
			word = (word &^ 0x0FFF) | uint16(value&0x0FFF)
		} else {
			word = (word &^ 0xFFF0) | uint16(value&0x0FFF)<<4
		}
		binary.LittleEndian.PutUint16(t.buf[offset:offset+2], word)
	case FAT16:
		offset := idx * 2
		binary.LittleEndian.PutUint16(t.buf[offset:offset+2], uint16(value))
	case FAT32:
		offset := idx * 4
		existing := binary.LittleEndian.Uint32(t.buf[offset : offset+4])
		merged := (existing & 0xF0000000) | (value & 0x0FFFFFFF)
		binary.LittleEndian.PutUint32(t.buf[offset:offset+4], merged)
	}
}

// isEndOfChain reports whether n, read as a raw FAT value, terminates a
// chain - either because it is past the variant's end-of-chain boundary or
// because it is the reserved bad-cluster marker.
func (t *fatTable) isEndOfChain(n fatEntry) bool {
	v := uint32(n)
	return v >= eocBoundary(t.variant) || v == badClusterMarker(t.variant)
}

// findFree scans strictly above start (floored at 2) for the first
// cluster whose decoded FAT value is 0.
func (t *fatTable) findFree(start fatEntry) (fatEntry, error) {
	begin := uint32(start) + 1
	if begin < 2 {
		begin = 2
	}

	for c := begin; c <= t.totalClusters+1; c++ {
		if t.rawGet(fatEntry(c)) == 0 {
			return fatEntry(c), nil
		}
	}

	return 0, checkpoint.From(ErrNoSpace)
}

// chain walks the cluster chain starting at start, returning every cluster
// number visited including start, stopping once isEndOfChain matches.
func (t *fatTable) chain(start fatEntry) []fatEntry {
	if start == 0 {
		return nil
	}

	var result []fatEntry
	cur := start
	for {
		result = append(result, cur)
		next := t.get(cur)
		if next == 0 || next == cur || t.isEndOfChain(next) {
			break
		}
		cur = next
	}
	return result
}

// flush writes the in-memory FAT out to every one of numFATs on-disk
// copies. Per , the primary copy is written last so that a failed
// flush localizes damage to the backup copies rather than the primary.
func (t *fatTable) flush(img *imageIO) error {
	for k := int(t.numFATs) - 1; k >= 0; k-- {
		sector := t.firstFATSector + uint32(k)*t.sectorsPerFAT
		if err := img.writeAt(int64(sector)*int64(t.bytesPerSector), t.buf); err != nil {
			return checkpoint.Wrap(err, ErrIO)
		}
	}
	return nil
}
