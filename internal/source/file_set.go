package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every version of every file of a run. Revisions get new
// IDs; old versions stay readable so fixes can be diffed.
type FileSet struct {
	files   []*File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet { return NewFileSetWithBase("") }

// NewFileSetWithBase sets the directory relative paths are printed against.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{latest: map[string]FileID{}, baseDir: baseDir}
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Len counts versions, not distinct paths.
func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content as a new version of path. content must already be
// normalized.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: too many file versions: %w", err))
	}
	id := FileID(n)
	f := &File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	fs.files = append(fs.files, f)
	fs.latest[f.Path] = id
	return id
}

// Load reads path, strips a BOM and folds CRLF before Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- пути приходят из командной строки
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	content, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content that is never written back.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Revise adds content as the next version of id, keeping its flags.
func (fs *FileSet) Revise(id FileID, content []byte) FileID {
	prev := fs.Get(id)
	return fs.Add(prev.Path, content, prev.Flags)
}

// Get returns nil for unknown IDs.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// GetLatest returns the newest version of path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve maps both ends of span to line and column.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}
