package bank

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/mind-engage/certprep/internal/storage"
)

//go:embed data/*.json
var builtin embed.FS

// PackPrefix is the blob-store prefix under which uploaded packs live.
const PackPrefix = "packs/"

// Builtin returns the catalog of the embedded packs.
func Builtin() (*Catalog, error) {
	return LoadFS(builtin, "data")
}

// LoadFS merges every *.json pack in dir, in lexical order.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	c := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		p, err := DecodePack(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		c = c.With(p)
	}
	return c, nil
}

// Registry serves the current catalog: the embedded packs with blob-stored packs
// merged on top. Reload swaps the catalog atomically for readers.
type Registry struct {
	mu   sync.RWMutex
	cur  *Catalog
	base *Catalog
	bs   storage.BlobStore

	// held from List to swap so the last reload always sees every stored pack
	reloadMu sync.Mutex
}

// NewRegistry builds a registry over base. bs may be nil, in which case no
// uploaded packs are consulted.
func NewRegistry(base *Catalog, bs storage.BlobStore) *Registry {
	return &Registry{cur: base, base: base, bs: bs}
}

func (r *Registry) Catalog() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Reload rebuilds the catalog from the base plus every stored pack. A stored pack
// that fails validation aborts the reload and leaves the current catalog in place.
func (r *Registry) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	c := r.base
	if r.bs != nil {
		keys, err := r.bs.List(ctx, PackPrefix)
		if err != nil {
			return fmt.Errorf("list packs: %w", err)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !strings.HasSuffix(k, ".json") {
				continue
			}
			p, err := r.readPack(ctx, k)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			c = c.With(p)
		}
	}
	r.mu.Lock()
	r.cur = c
	r.mu.Unlock()
	return nil
}

func (r *Registry) readPack(ctx context.Context, key string) (Pack, error) {
	rc, err := r.bs.Get(ctx, key)
	if err != nil {
		return Pack{}, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return Pack{}, err
	}
	return DecodePack(raw)
}

// PackKey maps an upload name to its blob key.
func PackKey(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid pack name %q", name)
	}
	return PackPrefix + name + ".json", nil
}
