// Package storage keeps uploaded album covers on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Disk struct {
	root string
	now  func() time.Time
}

// NewDisk creates root if it does not exist.
func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Disk{root: root, now: time.Now}, nil
}

func (d *Disk) Root() string { return d.root }

// Store writes r to a new file named <unix millis>_<base name> and returns
// the generated filename. Existing files are never overwritten.
func (d *Disk) Store(r io.Reader, originalName string) (string, error) {
	name := strconv.FormatInt(d.now().UnixMilli(), 10) + "_" + sanitize(originalName)
	dst := filepath.Join(d.root, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return name, nil
}

// Remove deletes the file named by the last path segment of url. Failures
// are logged only.
func (d *Disk) Remove(url string) {
	if url == "" {
		return
	}
	name := sanitize(path.Base(url))
	if name == "" {
		return
	}

	err := os.Remove(filepath.Join(d.root, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("storage: remove cover", "file", name, "err", err)
	}
}

// Handler serves stored files. Mount it with the URL prefix stripped.
func (d *Disk) Handler() http.Handler {
	return http.FileServer(noListing{http.Dir(d.root)})
}

func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}

// noListing hides directory indexes.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
