package imagestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	xe "github.com/opst/vettracker/pkg/errors"
)

type local struct {
	dir       string
	urlPrefix string
}

// Local stores images as files in dir, served at urlPrefix.
func Local(dir string, urlPrefix string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, xe.Wrap(err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &local{dir: dir, urlPrefix: urlPrefix}, nil
}

func (l *local) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := NewName(filename)
	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", xe.Wrap(err)
	}
	if _, err := io.Copy(f, io.LimitReader(r, MaxSize+1)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", xe.Wrap(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", xe.Wrap(err)
	}
	return l.urlPrefix + name, nil
}

func (l *local) Delete(_ context.Context, url string) error {
	if isDefault(url) || !strings.HasPrefix(url, l.urlPrefix) {
		return nil
	}
	name := strings.TrimPrefix(url, l.urlPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return xe.Wrap(err)
	}
	return nil
}
