// Package asset loads static page assets from disk and memoizes them for a short TTL.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// ErrNotImage is returned when the file content is not a recognized image format.
var ErrNotImage = errors.New("not an image")

// Image is a loaded image file.
type Image struct {
	Data        []byte
	ContentType string
	LoadedAt    time.Time
}

// Loader reads a single image file and keeps it in memory for ttl.
// Concurrent loads of an expired entry share one disk read.
type Loader struct {
	fsys  fs.FS
	name  string
	ttl   time.Duration
	now   func() time.Time
	reads prometheus.Counter

	group singleflight.Group
	mu    sync.Mutex
	img   *Image
}

// NewLoader creates a loader for name within fsys.
func NewLoader(fsys fs.FS, name string, ttl time.Duration) *Loader {
	return &Loader{fsys: fsys, name: name, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// WithReadCounter attaches a counter incremented on every disk read.
func (l *Loader) WithReadCounter(c prometheus.Counter) *Loader {
	l.reads = c
	return l
}

// Name returns the file name the loader serves.
func (l *Loader) Name() string { return l.name }

// Load returns the memoized image, reading it from disk when the cached copy is older than ttl.
func (l *Loader) Load() (Image, error) {
	if img, ok := l.cached(); ok {
		return img, nil
	}

	v, err, _ := l.group.Do(l.name, func() (any, error) {
		if img, ok := l.cached(); ok {
			return img, nil
		}
		img, err := l.read()
		if err != nil {
			return Image{}, err
		}
		l.mu.Lock()
		l.img = &img
		l.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return Image{}, err
	}
	return v.(Image), nil
}

func (l *Loader) cached() (Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.img == nil || l.now().Sub(l.img.LoadedAt) >= l.ttl {
		return Image{}, false
	}
	return *l.img, true
}

func (l *Loader) read() (Image, error) {
	if l.reads != nil {
		l.reads.Inc()
	}
	data, err := fs.ReadFile(l.fsys, l.name)
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", l.name, err)
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return Image{}, fmt.Errorf("%s: %w (detected %s)", l.name, ErrNotImage, ct)
	}
	return Image{Data: data, ContentType: ct, LoadedAt: l.now()}, nil
}
