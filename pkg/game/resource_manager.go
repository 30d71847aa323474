package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnsupportedSource is returned for asset sources that are neither
// http(s) URLs, embedded "data/" paths nor local files.
var ErrUnsupportedSource = errors.New("unsupported asset source")

// DefaultFetchTimeout bounds a single network fetch.
const DefaultFetchTimeout = 60 * time.Second

// AssetRequest describes the assets the room needs.
type AssetRequest struct {
	// ModelURL points to a skinned glTF/GLB character.
	ModelURL string
	// FontURL points to a TTF/OTF font; empty selects the built-in Go Regular face.
	FontURL string
}

// AssetBundle is the single "assets ready" result delivered by LoadAssetsAsync.
// A failed part is nil and its error is set; the scene skips whatever depends on it.
type AssetBundle struct {
	Model    *model.Model
	ModelErr error

	Font    *text.GoTextFaceSource
	FontErr error
}

// ResourceManager is responsible for fetching and decoding the room's assets.
//
// Sources are resolved by prefix:
//   - "http://", "https://": fetched with net/http (the browser's fetch under wasm)
//   - "data/...": read from the embedded data FS
//   - anything else without a scheme: read from the local file system
//
// The font source cache is guarded by a mutex because LoadAssetsAsync decodes
// fonts on a background goroutine while the game loop may ask for faces.
//
// Usage:
//
//	rm := NewResourceManager(nil)
//	ready := rm.LoadAssetsAsync(ctx, AssetRequest{ModelURL: url})
//	// in Update:
//	select {
//	case bundle := <-ready:
//	    ...
//	default:
//	}
type ResourceManager struct {
	client *http.Client

	mu          sync.Mutex
	fontSources map[string]*text.GoTextFaceSource // source -> parsed font
	faceCache   map[string]*text.GoTextFace       // "source:size" -> face
}

// NewResourceManager creates a ResourceManager.
// A nil client selects an http.Client with DefaultFetchTimeout.
func NewResourceManager(client *http.Client) *ResourceManager {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &ResourceManager{
		client:      client,
		fontSources: make(map[string]*text.GoTextFaceSource),
		faceCache:   make(map[string]*text.GoTextFace),
	}
}

// Fetch reads the raw bytes of an asset source.
//
// Parameters:
//   - ctx: cancels network fetches
//   - source: URL, embedded "data/" path or local file path
//
// Returns:
//   - the asset bytes
//   - ErrUnsupportedSource (wrapped) for empty sources and unknown URL schemes
func (rm *ResourceManager) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	}

	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https":
			return rm.fetchHTTP(ctx, source)
		case "file":
			return os.ReadFile(u.Path)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
		}
	}

	if embedded.IsEmbeddedPath(source) && embedded.Exists(source) {
		return embedded.ReadFile(source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, nil
}

func (rm *ResourceManager) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", source, err)
	}
	resp, err := rm.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", source, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", source, err)
	}
	return data, nil
}

// LoadModel fetches and decodes a glTF/GLB character model.
func (rm *ResourceManager) LoadModel(ctx context.Context, source string) (*model.Model, error) {
	data, err := rm.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	m, err := model.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", source, err)
	}
	return m, nil
}

// LoadFontSource fetches and parses a TrueType/OpenType font.
// An empty source returns the built-in Go Regular font. Parsed sources are cached.
func (rm *ResourceManager) LoadFontSource(ctx context.Context, source string) (*text.GoTextFaceSource, error) {
	rm.mu.Lock()
	cached, ok := rm.fontSources[source]
	rm.mu.Unlock()
	if ok {
		return cached, nil
	}

	var fontData []byte
	if source == "" {
		fontData = goregular.TTF
	} else {
		data, err := rm.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		fontData = data
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %q: %w", source, err)
	}

	rm.mu.Lock()
	rm.fontSources[source] = src
	rm.mu.Unlock()
	return src, nil
}

// Face returns a cached text face of the given size for an already parsed source.
// A nil src yields nil unless the key is already cached.
func (rm *ResourceManager) Face(src *text.GoTextFaceSource, key string, size float64) *text.GoTextFace {
	cacheKey := fmt.Sprintf("%s:%.1f", key, size)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if face, ok := rm.faceCache[cacheKey]; ok {
		return face
	}
	if src == nil {
		return nil
	}
	face := &text.GoTextFace{
		Source:    src,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.faceCache[cacheKey] = face
	return face
}

// LoadAssetsAsync loads the model and the font on a background goroutine.
//
// The returned channel is buffered and receives exactly one AssetBundle, after
// which it is closed. Errors are logged and reported inside the bundle.
func (rm *ResourceManager) LoadAssetsAsync(ctx context.Context, req AssetRequest) <-chan AssetBundle {
	ready := make(chan AssetBundle, 1)

	go func() {
		defer close(ready)
		var bundle AssetBundle

		start := time.Now()
		bundle.Model, bundle.ModelErr = rm.LoadModel(ctx, req.ModelURL)
		if bundle.ModelErr != nil {
			log.Printf("[ResourceManager] 模型加载失败: %v", bundle.ModelErr)
		} else {
			log.Printf("[ResourceManager] 模型加载完成: %s (%d 节点, %d 动画, 耗时 %v)",
				req.ModelURL, len(bundle.Model.Nodes), len(bundle.Model.Clips), time.Since(start).Round(time.Millisecond))
		}

		bundle.Font, bundle.FontErr = rm.LoadFontSource(ctx, req.FontURL)
		if bundle.FontErr != nil {
			log.Printf("[ResourceManager] 字体加载失败: %v", bundle.FontErr)
		}

		ready <- bundle
	}()

	return ready
}
