package iconview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/storage"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestScaleToFit_Letterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 320, 160))
	for y := 0; y < 160; y++ {
		for x := 0; x < 320; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}

	dst, err := scaleToFit(src, 128)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if b := dst.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("Expected a 128x128 thumbnail, got %v", b)
	}
	if _, _, _, a := dst.At(64, 2).RGBA(); a != 0 {
		t.Errorf("Expected transparent padding above a wide image")
	}
	if _, g, _, a := dst.At(64, 64).RGBA(); a == 0 || g == 0 {
		t.Errorf("Expected image content in the middle")
	}

	if _, err := scaleToFit(image.NewRGBA(image.Rect(0, 0, 0, 10)), 128); err == nil {
		t.Errorf("Expected an error for an empty image")
	}
}

func TestSupportsThumbnail(t *testing.T) {
	for path, want := range map[string]bool{
		"/tmp/a.png":  true,
		"/tmp/b.JPG":  true,
		"/tmp/c.jpeg": true,
		"/tmp/d.txt":  false,
		"/tmp/e":      false,
	} {
		if got := supportsThumbnail(storage.NewFileURI(path)); got != want {
			t.Errorf("Expected %v for %s, got %v", want, path, got)
		}
	}
	if supportsThumbnail(nil) {
		t.Errorf("Expected no thumbnail for nil")
	}
}

func TestThumbnailManager_Load(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	path := filepath.Join(dir, "red.png")
	writeTestPNG(t, path, 40, 20)

	m := NewThumbnailManager(cacheDir, 2)
	defer m.Close()

	done := make(chan image.Image, 1)
	u := storage.NewFileURI(path)
	if !m.Load(u, func(img image.Image) { done <- img }) {
		t.Fatalf("Expected a png to be accepted")
	}

	select {
	case img := <-done:
		if b := img.Bounds(); b.Dx() != thumbnailSize || b.Dy() != thumbnailSize {
			t.Errorf("Expected a %d square, got %v", thumbnailSize, b)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for thumbnail")
	}

	if m.Cached(u) == nil {
		t.Errorf("Expected the thumbnail to be kept in memory")
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 1 {
		t.Errorf("Expected one cached file, got %d", len(entries))
	}

	if m.Load(storage.NewFileURI(filepath.Join(dir, "notes.txt")), func(image.Image) {}) {
		t.Errorf("Expected a text file to be refused")
	}
}

func TestThumbnailManager_CacheKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writeTestPNG(t, path, 4, 4)

	key1, err := cacheKey(path)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key2, _ := cacheKey(path)
	if key1 != key2 {
		t.Errorf("Keys should be identical for the same file: %s != %s", key1, key2)
	}

	later := time.Now().Add(time.Hour)
	_ = os.Chtimes(path, later, later)
	key3, _ := cacheKey(path)
	if key3 == key1 {
		t.Error("Key should change when modification time changes")
	}
}

func TestThumbnailManager_CleanupCache(t *testing.T) {
	dir := t.TempDir()
	m := &ThumbnailManager{cacheDir: dir}

	oldSize, oldFiles := MaxCacheSize, MaxCacheFiles
	MaxCacheSize = 100
	MaxCacheFiles = 5
	defer func() {
		MaxCacheSize = oldSize
		MaxCacheFiles = oldFiles
	}()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		path := filepath.Join(dir, string(rune('a'+i))+".jpg")
		_ = os.WriteFile(path, make([]byte, 20), 0o644)
		mod := base.Add(time.Duration(i) * time.Minute)
		_ = os.Chtimes(path, mod, mod)
	}

	m.cleanupCache()

	entries, _ := os.ReadDir(dir)
	if len(entries) != 4 {
		t.Errorf("Expected 4 files left, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "a.jpg")); !os.IsNotExist(err) {
		t.Errorf("Expected the oldest file to be removed")
	}
}

func TestThumbnailManager_CloseStopsWorkers(t *testing.T) {
	m := NewThumbnailManager("", 3)
	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for workers to stop")
	}
	if !m.Load(storage.NewFileURI("/tmp/a.png"), func(image.Image) { t.Errorf("Expected no callback after close") }) {
		t.Errorf("Expected a png to still be reported as supported")
	}
}
