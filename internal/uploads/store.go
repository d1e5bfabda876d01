// Package uploads keeps tool-certification PDFs on local disk.
package uploads

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads/"

const pdfMIME = "application/pdf"

var (
	ErrEmpty    = errors.New("uploaded file is empty")
	ErrNotPDF   = errors.New("tool certificate must be a PDF")
	ErrTooLarge = errors.New("uploaded file is too large")
)

type Store struct {
	dir     string
	maxSize int64
	log     *logrus.Logger
}

func NewStore(dir string, maxSize int64, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &Store{dir: dir, maxSize: maxSize, log: log}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxSize() int64 { return s.maxSize }

// SaveToolCert copies r into a new uniquely named PDF and returns its public
// path. The file only appears under its final name once it is complete.
func (s *Store) SaveToolCert(r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, s.maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrap(err, "write upload")
	}
	if n == 0 {
		return "", ErrEmpty
	}
	if n > s.maxSize {
		return "", errors.Wrapf(ErrTooLarge, "limit is %d bytes", s.maxSize)
	}

	mt, err := mimetype.DetectFile(tmpName)
	if err != nil {
		return "", errors.Wrap(err, "detect content type")
	}
	if !mt.Is(pdfMIME) {
		return "", errors.Wrapf(ErrNotPDF, "got %s", mt.String())
	}

	name := "toolcert-" + uuid.NewString() + ".pdf"
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", errors.Wrap(err, "move upload into place")
	}
	keep = true

	s.log.WithFields(logrus.Fields{"file": name, "bytes": n}).Debug("stored tool certificate")
	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a file previously returned by SaveToolCert. Paths outside
// the upload directory are ignored.
func (s *Store) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, PublicPrefix)
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", name)
	}
	return nil
}
