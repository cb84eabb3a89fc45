package edge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bobmcallan/hedge-portal/internal/cache"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/interfaces"
)

// AssetKeyPrefix is the bucket namespace for static assets.
const AssetKeyPrefix = "static/"

// NewDirAssets serves files under root for request paths below prefix.
// Directory listings are refused.
func NewDirAssets(prefix, root string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// KVAssets serves static assets stored in a key-value bucket under
// "static/<path>", caching rendered responses in memory.
type KVAssets struct {
	prefix string
	store  interfaces.KeyValueStorage
	cache  *cache.ResponseCache
	logger *common.Logger
	obs    Observer
}

// NewKVAssets creates a bucket-backed asset handler. respCache may be nil to
// disable caching.
func NewKVAssets(prefix string, store interfaces.KeyValueStorage, respCache *cache.ResponseCache, logger *common.Logger) *KVAssets {
	return &KVAssets{prefix: prefix, store: store, cache: respCache, logger: logger}
}

// SetObserver attaches an observer recording where assets were served from.
func (a *KVAssets) SetObserver(o Observer) {
	a.obs = o
}

// AssetKey maps a request path to its bucket key, rejecting traversal.
func AssetKey(prefix, requestPath string) (string, bool) {
	rel := strings.TrimLeft(strings.TrimPrefix(requestPath, prefix), "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", false
		}
	}
	return AssetKeyPrefix + path.Clean(rel), true
}

func (a *KVAssets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, ok := AssetKey(a.prefix, r.URL.Path)
	if !ok {
		a.observe("miss")
		http.NotFound(w, r)
		return
	}

	cacheKey := cache.MakeKey(http.MethodGet, key)
	if a.cache != nil {
		if cached, hit := a.cache.Get(cacheKey); hit {
			a.observe("cache")
			writeCached(w, r, cached)
			return
		}
	}

	content, err := a.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			a.observe("miss")
			http.NotFound(w, r)
			return
		}
		a.logger.Error().Str("key", key).Err(err).Msg("Failed to load asset")
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := &cache.CachedResponse{
		StatusCode: http.StatusOK,
		Headers: http.Header{
			"Content-Type":   []string{contentType(key, content)},
			"Content-Length": []string{strconv.Itoa(len(content))},
		},
		Body: []byte(content),
	}
	if a.cache != nil {
		a.cache.Set(cacheKey, resp)
	}
	a.observe("store")
	writeCached(w, r, resp)
}

func (a *KVAssets) observe(source string) {
	if a.obs != nil {
		a.obs.AssetServed(source)
	}
}

func writeCached(w http.ResponseWriter, r *http.Request, resp *cache.CachedResponse) {
	for k, vals := range resp.Headers {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method != http.MethodHead {
		w.Write(resp.Body)
	}
}

func contentType(key, content string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType([]byte(content))
}

// SyncDir uploads every regular file under dir into store as
// "static/<relative path>" and returns the number of files written.
func SyncDir(ctx context.Context, store interfaces.KeyValueStorage, dir string, logger *common.Logger) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		key := AssetKeyPrefix + filepath.ToSlash(rel)
		if err := store.Set(ctx, key, string(data)); err != nil {
			return err
		}
		logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Asset uploaded")
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("asset sync from %s failed: %w", dir, err)
	}
	return count, nil
}
