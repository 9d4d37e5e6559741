package gofat

import "github.com/kdwils/gofat/checkpoint"

// resolved is what the path resolver hands back once it has located an
// entry: the entry itself together with the cluster of the directory that
// contains it (0 meaning "the FAT12/16 fixed root" when the FAT32 case
// doesn't apply, exactly like the on-disk "." / ".." convention).
type resolved struct {
	entry         ExtendedEntryHeader
	parentCluster fatEntry
}

// resolvePath splits path, normalizes every component to its 8.3 form and
// descends from the root, enforcing that every non-terminal component is
// a directory. An empty path (root itself, or "\") is a special
// case the caller must check for before calling resolvePath.
func (fs *Fs) resolvePath(path string) (*resolved, error) {
	components, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, checkpoint.From(ErrInvalidPath)
	}

	shorts := shortPathComponents(components)

	var currentEntries []ExtendedEntryHeader
	var parentCluster fatEntry

	currentEntries, err = fs.readRoot()
	if err != nil {
		return nil, err
	}

	var found ExtendedEntryHeader
	for i, want := range shorts {
		var match *ExtendedEntryHeader
		for j, e := range currentEntries {
			if e.Name == want {
				match = &currentEntries[j]
				break
			}
		}
		if match == nil {
			return nil, checkpoint.From(ErrNotFound)
		}

		isLast := i == len(shorts)-1
		if !isLast && match.Attribute&AttrDirectory == 0 {
			return nil, checkpoint.From(ErrNotADirectory)
		}

		found = *match
		if !isLast {
			parentCluster = match.firstCluster()
			currentEntries, err = fs.readDir(parentCluster)
			if err != nil {
				return nil, err
			}
		}
	}

	return &resolved{entry: found, parentCluster: parentCluster}, nil
}

// resolveParentDir resolves every component but the last, returning the
// cluster of the directory that should contain the leaf (0 for the
// FAT12/16 fixed root). Used by CreateFile/CreateDirectory before the
// leaf itself exists.
func (fs *Fs) resolveParentDir(path string) (fatEntry, string, error) {
	components, err := splitPath(path)
	if err != nil {
		return 0, "", err
	}
	if len(components) == 0 {
		return 0, "", checkpoint.From(ErrInvalidPath)
	}

	leaf := components[len(components)-1]
	parents := components[:len(components)-1]

	if len(parents) == 0 {
		return 0, leaf, nil
	}

	shorts := shortPathComponents(parents)

	entries, err := fs.readRoot()
	if err != nil {
		return 0, "", err
	}

	var cluster fatEntry
	for _, want := range shorts {
		var match *EntryHeader
		for _, e := range entries {
			if e.Name == want {
				match = &e.EntryHeader
				break
			}
		}
		if match == nil {
			return 0, "", checkpoint.From(ErrNotFound)
		}
		if match.Attribute&AttrDirectory == 0 {
			return 0, "", checkpoint.From(ErrNotADirectory)
		}

		cluster = match.firstCluster()
		entries, err = fs.readDir(cluster)
		if err != nil {
			return 0, "", err
		}
	}

	return cluster, leaf, nil
}
