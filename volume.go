package gofat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kdwils/gofat/checkpoint"
	"github.com/spf13/afero"
)

// Options configures a mount. The zero value is the strict default used
// by New.
type Options struct {
	// SkipChecks disables the BPB sanity checks normally performed at
	// mount time, allowing a non-standard but still decodable volume to
	// mount. Use with caution.
	SkipChecks bool
}

// Fs is a mounted FAT12/16/32 volume. It implements
// afero.Fs so callers get Open/Create/Stat/Readdir in the shape the Go
// ecosystem already expects from a filesystem value.
//
// A Fs is exclusively owned by its holder - there is no internal locking
// beyond guarding the in-memory FAT/geometry against accidental
// concurrent use from within the same process. Concurrent use by
// multiple holders is undefined.
type Fs struct {
	lock sync.Mutex

	closed bool

	img *imageIO
	geo *geometry
	fat *fatTable
}

// checkMounted reports ErrNotMounted once Close has released the volume.
// Callers that already hold fs.lock call this directly; it never takes
// the lock itself.
func (fs *Fs) checkMounted() error {
	if fs.closed {
		return checkpoint.From(ErrNotMounted)
	}
	return nil
}

var _ afero.Fs = (*Fs)(nil)

// New mounts rw as a FAT volume, auto-detecting FAT12/16/32.
func New(rw io.ReadWriteSeeker) (*Fs, error) {
	return NewWithOptions(rw, Options{})
}

// NewSkipChecks mounts rw like New but without the BPB sanity checks.
func NewSkipChecks(rw io.ReadWriteSeeker) (*Fs, error) {
	return NewWithOptions(rw, Options{SkipChecks: true})
}

// NewWithOptions mounts rw as a FAT volume per opts. A failed mount
// leaves the backing image untouched.
func NewWithOptions(rw io.ReadWriteSeeker, opts Options) (*Fs, error) {
	img := newImageIO(rw)

	sector0, err := img.readAt(0, 512)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	geo, err := parseGeometry(sector0, opts.SkipChecks)
	if err != nil {
		return nil, err
	}

	fat, err := loadFATTable(img, geo.variant, geo.firstFATSector, geo.sectorsPerFAT, geo.bytesPerSector, geo.bpb.NumFATs, geo.totalClusters)
	if err != nil {
		return nil, err
	}

	return &Fs{img: img, geo: geo, fat: fat}, nil
}

// Close releases the backing image. Once a volume has been closed, every
// other public operation except FSType, Label and Name (which only read
// the geometry parsed at mount) returns ErrNotMounted.
func (fs *Fs) Close() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.closed {
		return nil
	}
	fs.closed = true
	return fs.img.close()
}

// FSType reports the auto-detected variant.
func (fs *Fs) FSType() FATType {
	return fs.geo.variant
}

// Label returns the volume label from the extended BPB record, trimmed of
// trailing padding.
func (fs *Fs) Label() string {
	var label [11]byte
	if fs.geo.variant == FAT32 {
		var fat32 FAT32SpecificData
		binary.Read(bytes.NewReader(fs.geo.bpb.FATSpecificData[:]), binary.LittleEndian, &fat32)
		label = fat32.BSVolumeLabel
	} else {
		var fat16 FAT16SpecificData
		binary.Read(bytes.NewReader(fs.geo.bpb.FATSpecificData[:]), binary.LittleEndian, &fat16)
		label = fat16.BSVolumeLabel
	}
	return strings.TrimRight(string(label[:]), " ")
}

// FSInfo reads and returns the FAT32 FSInfo sector. It is
// diagnostic-only - gofat never consults it when allocating, and this
// method returns ErrUnsupported on FAT12/16 volumes which have no such
// sector.
func (fs *Fs) FSInfo() (*FSInfo, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return nil, err
	}

	if fs.geo.variant != FAT32 {
		return nil, checkpoint.From(ErrUnsupported)
	}

	buf, err := fs.img.readAt(int64(fs.geo.fat32FSInfoSector)*int64(fs.geo.bytesPerSector), int64(fs.geo.bytesPerSector))
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	var info FSInfo
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &info); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	return &info, nil
}

// clusterOffset returns the absolute byte offset of cluster c. Clusters
// are numbered from 2; 0 and 1 are reserved.
func (fs *Fs) clusterOffset(c fatEntry) int64 {
	return int64(fs.geo.firstDataSector)*int64(fs.geo.bytesPerSector) +
		int64(uint32(c)-2)*int64(fs.geo.sectorsPerCluster)*int64(fs.geo.bytesPerSector)
}

func (fs *Fs) readCluster(c fatEntry) ([]byte, error) {
	return fs.img.readAt(fs.clusterOffset(c), int64(fs.geo.bytesPerCluster))
}

func (fs *Fs) writeCluster(c fatEntry, data []byte) error {
	if uint32(len(data)) < fs.geo.bytesPerCluster {
		padded := make([]byte, fs.geo.bytesPerCluster)
		copy(padded, data)
		data = padded
	}
	return fs.img.writeAt(fs.clusterOffset(c), data)
}

// readFileAt satisfies fatFileFs for File: it walks the chain starting at
// cluster, concatenates cluster buffers, truncates to fileSize, and
// returns the requested [offset, offset+readSize) window.
func (fs *Fs) readFileAt(cluster fatEntry, fileSize int64, offset int64, readSize int64) ([]byte, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return nil, err
	}

	var all []byte
	if cluster != 0 {
		for _, c := range fs.fat.chain(cluster) {
			buf, err := fs.readCluster(c)
			if err != nil {
				return nil, checkpoint.Wrap(err, ErrIO)
			}
			all = append(all, buf...)
		}
	}

	if int64(len(all)) > fileSize {
		all = all[:fileSize]
	}

	if offset >= int64(len(all)) {
		return nil, io.EOF
	}

	end := offset + readSize
	if end > int64(len(all)) {
		end = int64(len(all))
	}

	result := all[offset:end]
	var err error
	if end >= int64(len(all)) {
		err = io.EOF
	}
	return result, err
}

// Open resolves path to an existing entry and returns a read-only handle.
func (fs *Fs) Open(name string) (afero.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile resolves path to an existing entry. Only read-only access is
// supported - writing is performed through CreateFile, not through an
// open handle (see DESIGN.md, Open Question d).
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return nil, err
	}

	path := normalizeAferoPath(name)

	if path == "" {
		return &File{
			fs:          fs,
			path:        "",
			isDirectory: true,
			stat:        rootFileInfo{fs: fs},
		}, nil
	}

	r, err := fs.resolvePath(path)
	if err != nil {
		return nil, err
	}

	return &File{
		fs:           fs,
		path:         path,
		isDirectory:  r.entry.Attribute&AttrDirectory != 0,
		isReadOnly:   r.entry.Attribute&AttrReadOnly != 0,
		isHidden:     r.entry.Attribute&AttrHidden != 0,
		isSystem:     r.entry.Attribute&AttrSystem != 0,
		firstCluster: r.entry.firstCluster(),
		stat:         r.entry.FileInfo(),
	}, nil
}

// Create creates an empty file at name and opens it. Attempting to
// create a path that already exists fails with ErrAlreadyExists.
func (fs *Fs) Create(name string) (afero.File, error) {
	if err := fs.CreateFile(normalizeAferoPath(name), nil); err != nil {
		return nil, err
	}
	return fs.Open(name)
}

// Mkdir creates an empty directory at name.
func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return fs.CreateDirectory(normalizeAferoPath(name))
}

// MkdirAll creates path and any missing parents.
func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	components, err := splitPath(normalizeAferoPath(path))
	if err != nil {
		return err
	}

	built := ""
	for _, c := range components {
		if built == "" {
			built = c
		} else {
			built = built + `\` + c
		}

		_, statErr := fs.Stat(built)
		if statErr == nil {
			continue
		}

		if err := fs.CreateDirectory(built); err != nil && !errorsIsAlreadyExists(err) {
			return err
		}
	}
	return nil
}

func errorsIsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// Remove and RemoveAll delegate to DeleteEntry, so they return
// ErrNotImplemented and remove nothing.
func (fs *Fs) Remove(name string) error {
	return fs.DeleteEntry(normalizeAferoPath(name))
}

func (fs *Fs) RemoveAll(path string) error {
	return fs.DeleteEntry(normalizeAferoPath(path))
}

// Rename is a non-goal - FAT directory-entry rename with correct
// 8.3/LFN bookkeeping is out of scope for this driver.
func (fs *Fs) Rename(oldname, newname string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrUnsupported)
}

// Stat resolves path and returns its os.FileInfo.
func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return nil, err
	}

	path := normalizeAferoPath(name)
	if path == "" {
		return rootFileInfo{fs: fs}, nil
	}

	r, err := fs.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return r.entry.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "gofat"
}

// Chmod, Chown and Chtimes have no useful FAT equivalent beyond the
// read-only/hidden/system/archive attribute bits, which this driver does
// not expose for mutation after creation.
func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrUnsupported)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrUnsupported)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := fs.checkMounted(); err != nil {
		return err
	}
	return checkpoint.From(ErrUnsupported)
}

// normalizeAferoPath adapts an afero-style path (forward slashes, perhaps
// a leading "/") to gofat's backslash convention so the afero.Fs methods
// stay usable with afero helpers such as afero.Walk.
func normalizeAferoPath(name string) string {
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, `\`)
	return strings.ReplaceAll(name, "/", `\`)
}

// rootFileInfo is the synthetic os.FileInfo for the volume root, which
// has no directory entry of its own to back it.
type rootFileInfo struct {
	fs *Fs
}

func (r rootFileInfo) Name() string       { return "" }
func (r rootFileInfo) Size() int64        { return 0 }
func (r rootFileInfo) Mode() os.FileMode  { return os.ModeDir }
func (r rootFileInfo) ModTime() time.Time { return time.Time{} }
func (r rootFileInfo) IsDir() bool        { return true }
func (r rootFileInfo) Sys() interface{}   { return nil }
