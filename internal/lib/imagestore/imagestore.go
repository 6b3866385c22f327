// Package imagestore writes uploaded meal images into the public image directory.
//
// Files are created exclusively: an existing file is never overwritten, so two
// meals can not silently share one image. Writes are flushed before Save
// returns and a failed write leaves no partial file behind.
package imagestore

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrExists is returned by Save when the target file already exists.
var ErrExists = errors.New("image already exists")

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Store is a directory of publicly served images.
type Store struct {
	fs           afero.Fs
	dir          string
	publicPrefix string
}

// Result describes a stored image.
type Result struct {
	Name        string
	PublicPath  string
	Size        int64
	ContentType string
}

// New creates a Store rooted at dir on fsys. publicPrefix is the URL path the
// directory is served under, e.g. "/images".
func New(fsys afero.Fs, dir, publicPrefix string) *Store {
	return &Store{
		fs:           fsys,
		dir:          dir,
		publicPrefix: publicPrefix,
	}
}

// NewOS creates a Store on the operating system file system.
func NewOS(dir, publicPrefix string) *Store {
	return New(afero.NewOsFs(), dir, publicPrefix)
}

// EnsureDir creates the image directory and its parents if missing.
func (s *Store) EnsureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return pkgerrors.Wrapf(err, "creating image directory %s", s.dir)
	}
	return nil
}

// PublicPath returns the path under which name is served to clients.
func (s *Store) PublicPath(name string) string {
	return path.Join(s.publicPrefix, name)
}

// Save writes everything from r into a new file called name.
//
// It returns ErrExists (wrapped) when the file is already present. On any
// other failure the partially written file is removed.
func (s *Store) Save(name string, r io.Reader) (*Result, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, pkgerrors.Errorf("invalid image name %q", name)
	}

	if err := s.EnsureDir(); err != nil {
		return nil, err
	}

	target := filepath.Join(s.dir, name)

	f, err := s.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, pkgerrors.Wrapf(ErrExists, "%s", target)
		}
		return nil, pkgerrors.Wrapf(err, "creating image %s", target)
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		s.discard(f, target)
		return nil, pkgerrors.Wrap(err, "reading image")
	}
	// head is only valid until the next read.
	contentType := mimetype.Detect(head).String()

	size, err := io.Copy(f, br)
	if err != nil {
		s.discard(f, target)
		return nil, pkgerrors.Wrapf(err, "writing image %s", target)
	}

	if err := f.Sync(); err != nil {
		s.discard(f, target)
		return nil, pkgerrors.Wrapf(err, "flushing image %s", target)
	}

	if err := f.Close(); err != nil {
		_ = s.fs.Remove(target)
		return nil, pkgerrors.Wrapf(err, "closing image %s", target)
	}

	return &Result{
		Name:        name,
		PublicPath:  s.PublicPath(name),
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Remove deletes the image called name. A missing file is not an error.
func (s *Store) Remove(name string) error {
	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pkgerrors.Wrapf(err, "removing image %s", name)
	}
	return nil
}

// Exists reports whether an image called name is stored.
func (s *Store) Exists(name string) (bool, error) {
	return afero.Exists(s.fs, filepath.Join(s.dir, name))
}

// ModTime returns when the image called name was last written.
func (s *Store) ModTime(name string) (time.Time, error) {
	info, err := s.fs.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return time.Time{}, pkgerrors.Wrapf(err, "stat image %s", name)
	}
	return info.ModTime(), nil
}

func (s *Store) discard(f afero.File, target string) {
	_ = f.Close()
	_ = s.fs.Remove(target)
}
