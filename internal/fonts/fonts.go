// Package fonts loads the typefaces used on the card.
//
// The Go font family is embedded through golang.org/x/image/font/gofont, so a
// card always renders without external files. A directory with regular.ttf,
// bold.ttf and italic.ttf overrides individual styles.
//
// Loading happens in the background; exports call Wait so text metrics are
// final before rasterization.
package fonts

import (
	"container/list"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Style selects a typeface.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "regular"
	}
}

var styles = []Style{Regular, Bold, Italic}

var embedded = map[Style][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
	Italic:  goitalic.TTF,
}

type typeface struct {
	source *text.FontSource
	otf    *opentype.Font
}

// Library holds the loaded typefaces. It is safe for concurrent use.
type Library struct {
	dir   string
	done  chan struct{}
	err   error
	faces map[Style]typeface

	mu    sync.Mutex
	cache map[faceKey]*list.Element
	lru   *list.List
}

type faceKey struct {
	style Style
	size  float64
}

type cachedFace struct {
	key  faceKey
	face font.Face
}

// MaxCachedFaces bounds the face cache. The least recently used face is
// dropped first.
const MaxCachedFaces = 64

// faceStep is the size granularity of cached faces, in pixels.
const faceStep = 0.25

// QuantizeSize rounds size to the face cache granularity.
func QuantizeSize(size float64) float64 {
	return math.Max(faceStep, math.Round(size/faceStep)*faceStep)
}

// Load starts loading fonts in the background and returns immediately.
// An empty dir uses the embedded fonts only.
func Load(dir string) *Library {
	l := &Library{
		dir:   dir,
		done:  make(chan struct{}),
		cache: make(map[faceKey]*list.Element),
		lru:   list.New(),
	}
	go func() {
		defer close(l.done)
		l.faces, l.err = load(dir)
	}()
	return l
}

// MustLoad loads fonts synchronously and panics on failure. Used by tests
// and tools that cannot proceed without fonts.
func MustLoad(dir string) *Library {
	l := Load(dir)
	if err := l.Wait(context.Background()); err != nil {
		panic(err)
	}
	return l
}

func load(dir string) (map[Style]typeface, error) {
	out := make(map[Style]typeface, len(styles))
	for _, s := range styles {
		data := embedded[s]
		if dir != "" {
			path := filepath.Join(dir, s.String()+".ttf")
			b, err := os.ReadFile(path)
			switch {
			case err == nil:
				data = b
			case !os.IsNotExist(err):
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		}

		src, err := text.NewFontSource(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", s, err)
		}
		otf, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", s, err)
		}
		out[s] = typeface{source: src, otf: otf}
	}
	return out, nil
}

// Wait blocks until loading finished or ctx is done.
func (l *Library) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether loading finished successfully.
func (l *Library) Ready() bool {
	select {
	case <-l.done:
		return l.err == nil
	default:
		return false
	}
}

// Source returns the gg font source for s. Call only after Wait succeeded.
func (l *Library) Source(s Style) *text.FontSource {
	return l.faces[s].source
}

// Face returns an x/image face for s at size pixels, rounded to a quarter
// pixel. Call only after Wait succeeded.
func (l *Library) Face(s Style, size float64) (font.Face, error) {
	key := faceKey{style: s, size: QuantizeSize(size)}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.cache[key]; ok {
		l.lru.MoveToFront(e)
		return e.Value.(*cachedFace).face, nil
	}
	f, err := opentype.NewFace(l.faces[s].otf, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	l.cache[key] = l.lru.PushFront(&cachedFace{key: key, face: f})
	for l.lru.Len() > MaxCachedFaces {
		oldest := l.lru.Back()
		l.lru.Remove(oldest)
		delete(l.cache, oldest.Value.(*cachedFace).key)
	}
	return f, nil
}

// CachedFaces reports how many faces are cached.
func (l *Library) CachedFaces() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lru.Len()
}
