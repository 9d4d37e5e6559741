package gofat

import (
	"time"

	"github.com/kdwils/gofat/checkpoint"
)

// nowFunc is overridable in tests so creation timestamps are deterministic.
var nowFunc = time.Now

// CreateFile creates a new file at path with the given contents. It
// fails with ErrAlreadyExists if path already resolves to an entry -
// overwriting an existing file is intentionally unsupported.
func (fs *Fs) CreateFile(path string, data []byte) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return fs.createEntry(path, data, 0)
}

// CreateDirectory creates a new, empty directory at path: allocates one
// cluster, marks it end-of-chain, inserts a directory entry for it, and
// seeds it with "." and "..".
func (fs *Fs) CreateDirectory(path string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return fs.createEntry(path, nil, AttrDirectory)
}

func (fs *Fs) createEntry(path string, data []byte, attr byte) error {
	if _, err := fs.resolvePath(path); err == nil {
		return checkpoint.From(ErrAlreadyExists)
	}

	parentCluster, leaf, err := fs.resolveParentDir(path)
	if err != nil {
		return err
	}

	short := toShortName(leaf)
	if err := validateLeafName(short); err != nil {
		return err
	}
	short = encodeNameByte(short)

	when := FormatDateTime(nowFunc())

	isDirectory := attr&AttrDirectory != 0

	var first fatEntry
	if isDirectory {
		cluster, err := fs.fat.findFree(1)
		if err != nil {
			return err
		}
		fs.fat.set(cluster, fatEntry(eocBoundary(fs.geo.variant)))
		first = cluster

		if err := fs.fat.flush(fs.img); err != nil {
			return err
		}

		// ".."'s first-cluster is 0 only when the parent is the
		// FAT12/16 fixed root - the FAT32 root is itself a real,
		// cluster-chained directory, so it needs its actual cluster
		// number here even though insert() treats cluster 0 as "the
		// root" for dispatch purposes.
		dotdotCluster := parentCluster
		if fs.geo.variant == FAT32 && parentCluster == 0 {
			dotdotCluster = fs.geo.fat32Root
		}
		if err := fs.seedDotEntries(cluster, dotdotCluster, when); err != nil {
			return err
		}
	} else if len(data) > 0 {
		chain, err := fs.allocateChain(ceilDivU32(uint32(len(data)), fs.geo.bytesPerCluster))
		if err != nil {
			return err
		}
		first = chain[0]

		if err := fs.fat.flush(fs.img); err != nil {
			return err
		}

		if err := fs.writeChainData(chain, data); err != nil {
			return err
		}
	}

	entryAttr := byte(AttrArchive)
	entrySize := uint32(len(data))
	if isDirectory {
		entryAttr = AttrDirectory
		entrySize = 0
	}

	entry := EntryHeader{
		Name:      short,
		Attribute: entryAttr,
		FileSize:  entrySize,
	}
	entry.setFirstCluster(first)
	applyDateTime(&entry, when)

	if err := fs.insert(parentCluster, entry); err != nil {
		return err
	}

	return fs.fat.flush(fs.img)
}

// allocateChain allocates count free clusters and links them into a
// chain, terminating the tail with the variant's end-of-chain marker.
func (fs *Fs) allocateChain(count uint32) ([]fatEntry, error) {
	if count == 0 {
		count = 1
	}

	chain := make([]fatEntry, 0, count)
	var prev fatEntry = 1

	for i := uint32(0); i < count; i++ {
		c, err := fs.fat.findFree(prev)
		if err != nil {
			return nil, err
		}
		if len(chain) > 0 {
			fs.fat.set(chain[len(chain)-1], c)
		}
		chain = append(chain, c)
		prev = c
	}

	fs.fat.set(chain[len(chain)-1], fatEntry(eocBoundary(fs.geo.variant)))

	return chain, nil
}

// writeChainData slices data into bytesPerCluster-sized chunks,
// zero-padding the tail, and writes one chunk per cluster in chain.
func (fs *Fs) writeChainData(chain []fatEntry, data []byte) error {
	clusterSize := int(fs.geo.bytesPerCluster)

	for i, cluster := range chain {
		start := i * clusterSize
		end := start + clusterSize
		if end > len(data) {
			end = len(data)
		}

		if err := fs.writeCluster(cluster, data[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func ceilDivU32(a, b uint32) uint32 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// DeleteEntry is a stub that returns ErrNotImplemented without touching
// the disk: it does not rewrite the entry's Name[0] to 0xE5 and does not
// free the entry's cluster chain.
func (fs *Fs) DeleteEntry(path string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrNotImplemented)
}

// EraseEntry is a stub that returns ErrNotImplemented without touching
// the disk: it does not overwrite the chain's clusters with pattern, and
// like DeleteEntry it neither marks the entry deleted nor frees the chain.
func (fs *Fs) EraseEntry(path string, pattern byte) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrNotImplemented)
}
