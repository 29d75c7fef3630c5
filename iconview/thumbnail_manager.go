package iconview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"golang.org/x/image/draw"
)

const (
	thumbnailSize     = 128
	maxQueuedRequests = 100
)

var (
	MaxCacheSize  int64 = 200 * 1024 * 1024
	MaxCacheFiles       = 5000
)

type thumbnailRequest struct {
	uri      fyne.URI
	callback func(image.Image)
}

// ThumbnailManager scales image files down to icon thumbnails on a pool of
// workers. Results are kept in memory and, when a cache directory is set, as
// JPEG files on disk. The newest request is served first.
type ThumbnailManager struct {
	cache    sync.Map // path -> image.Image
	cacheDir string

	mu       sync.Mutex
	cond     *sync.Cond
	requests []thumbnailRequest
	closed   bool
	workers  sync.WaitGroup
}

var (
	defaultThumbnails     *ThumbnailManager
	defaultThumbnailsOnce sync.Once
)

// DefaultThumbnails returns the shared manager, caching under the user cache
// directory.
func DefaultThumbnails() *ThumbnailManager {
	defaultThumbnailsOnce.Do(func() {
		dir := ""
		if userCache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(userCache, "xiconview")
		}
		defaultThumbnails = NewThumbnailManager(dir, 4)
	})
	return defaultThumbnails
}

// NewThumbnailManager starts workers goroutines. An empty cacheDir keeps
// thumbnails in memory only.
func NewThumbnailManager(cacheDir string, workers int) *ThumbnailManager {
	m := &ThumbnailManager{cacheDir: cacheDir}
	m.cond = sync.NewCond(&m.mu)
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			fyne.LogError("thumbnail cache unavailable", err)
			m.cacheDir = ""
		} else {
			go m.cleanupCache()
		}
	}
	if workers < 1 {
		workers = 1
	}
	m.workers.Add(workers)
	for range workers {
		go m.worker()
	}
	return m
}

// Close stops the workers once they finish their current request. Queued
// requests are dropped.
func (m *ThumbnailManager) Close() {
	m.mu.Lock()
	m.closed = true
	m.requests = nil
	m.cond.Broadcast()
	m.mu.Unlock()
	m.workers.Wait()
}

func supportsThumbnail(u fyne.URI) bool {
	if u == nil || u.Scheme() != "file" {
		return false
	}
	switch strings.ToLower(filepath.Ext(u.Path())) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Cached returns a thumbnail already held in memory.
func (m *ThumbnailManager) Cached(u fyne.URI) image.Image {
	if u == nil {
		return nil
	}
	if img, ok := m.cache.Load(u.Path()); ok {
		return img.(image.Image)
	}
	return nil
}

// Load reports whether u can have a thumbnail. When it can, callback runs
// once with the result, on a worker goroutine unless the thumbnail was
// cached. Failures are logged and never reach callback.
func (m *ThumbnailManager) Load(u fyne.URI, callback func(image.Image)) bool {
	if !supportsThumbnail(u) {
		return false
	}
	if img := m.Cached(u); img != nil {
		callback(img)
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return true
	}
	if len(m.requests) >= maxQueuedRequests {
		m.requests = m.requests[1:]
	}
	m.requests = append(m.requests, thumbnailRequest{uri: u, callback: callback})
	m.cond.Signal()
	return true
}

func (m *ThumbnailManager) next() (thumbnailRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.requests) == 0 && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return thumbnailRequest{}, false
	}
	last := len(m.requests) - 1
	req := m.requests[last]
	m.requests = m.requests[:last]
	return req, true
}

func (m *ThumbnailManager) worker() {
	defer m.workers.Done()
	for {
		req, ok := m.next()
		if !ok {
			return
		}
		img, err := m.thumbnail(req.uri.Path())
		if err != nil {
			fyne.LogError("thumbnail "+req.uri.Name(), err)
			continue
		}
		req.callback(img)
	}
}

func (m *ThumbnailManager) thumbnail(path string) (image.Image, error) {
	if img, ok := m.cache.Load(path); ok {
		return img.(image.Image), nil
	}

	cachePath := ""
	if m.cacheDir != "" {
		if key, err := cacheKey(path); err == nil {
			cachePath = filepath.Join(m.cacheDir, key+".jpg")
			if img, err := loadImage(cachePath); err == nil {
				m.cache.Store(path, img)
				return img, nil
			}
		}
	}

	src, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	dst, err := scaleToFit(src, thumbnailSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.cache.Store(path, dst)

	if cachePath != "" {
		if err := writeJPEG(cachePath, dst); err != nil {
			fyne.LogError("could not cache thumbnail", err)
		}
	}
	return dst, nil
}

// scaleToFit letterboxes src into a transparent square of edge size,
// keeping its aspect ratio.
func scaleToFit(src image.Image, size int) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	sw, sh := size, size
	if w > h {
		sh = max(1, size*h/w)
	} else {
		sw = max(1, size*w/h)
	}
	x0 := (size - sw) / 2
	y0 := (size - sh) / 2

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+sw, y0+sh), src, b, draw.Over, nil)
	return dst, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cacheKey identifies a file version by its absolute path, modification
// time and size.
func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d", abs, info.ModTime().UnixNano(), info.Size(), thumbnailSize)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// cleanupCache trims the disk cache to 80% of its limits, oldest first.
func (m *ThumbnailManager) cleanupCache() {
	entries, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return
	}

	type cached struct {
		name string
		size int64
		mod  int64
	}
	var files []cached
	var total int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jpg" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, cached{name: e.Name(), size: info.Size(), mod: info.ModTime().UnixNano()})
		total += info.Size()
	}
	if total <= MaxCacheSize && len(files) <= MaxCacheFiles {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })
	sizeTarget := MaxCacheSize * 8 / 10
	countTarget := MaxCacheFiles * 8 / 10
	for len(files) > 0 && (total > sizeTarget || len(files) > countTarget) {
		_ = os.Remove(filepath.Join(m.cacheDir, files[0].name))
		total -= files[0].size
		files = files[1:]
	}
}
