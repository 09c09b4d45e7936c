package flipbook

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Book is an ordered set of flipbook frames on disk. The widget scrubs
// through them as a pure function of progress.
type Book struct {
	dir   string
	names []string // lexical order
}

// Load lists the frame images in dir in lexical order.
func Load(dir string) (*Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("flipbook dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("flipbook dir %s: no frame images", dir)
	}
	sort.Strings(names)

	return &Book{dir: dir, names: names}, nil
}

// Count returns the number of frames.
func (b *Book) Count() int {
	return len(b.names)
}

// Index maps progress in [0,1] to a frame index. The mapping is monotonic:
// equal progress always lands on the same frame, and increasing progress
// never steps backward.
func (b *Book) Index(progress float64) int {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return len(b.names) - 1
	}
	return int(progress * float64(len(b.names)))
}

// ServeHTTP serves /frames/{n}.
func (b *Book) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idx := strings.TrimPrefix(r.URL.Path, "/frames/")
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n >= len(b.names) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, filepath.Join(b.dir, b.names[n]))
}
