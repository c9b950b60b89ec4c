package assetloader

import (
	"fmt"
	"os"

	"wallet_core/internal/app/port"
	"wallet_core/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// catalog implements port.CatalogProvider over an immutable asset list.
type catalog struct {
	assets []entity.Asset
	byID   map[string]entity.Asset
}

// Load reads the asset catalog JSON file, validates it and returns an
// immutable CatalogProvider. Catalog problems are startup failures.
func Load(path string, logger port.Logger) (port.CatalogProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset catalog %s: %w", path, err)
	}

	var assets []entity.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset catalog %s: %w", path, err)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("asset catalog %s is empty", path)
	}

	c, err := New(assets)
	if err != nil {
		return nil, fmt.Errorf("invalid asset catalog %s: %w", path, err)
	}
	logger.Info("Asset catalog loaded", "path", path, "count", len(assets))
	return c, nil
}

// New builds a CatalogProvider from an in-memory asset list, enforcing the
// catalog invariants: unique identifiers and non-negative parsable amounts.
func New(assets []entity.Asset) (port.CatalogProvider, error) {
	byID := make(map[string]entity.Asset, len(assets))
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate asset id %q", a.ID)
		}
		byID[a.ID] = a
	}
	out := make([]entity.Asset, len(assets))
	copy(out, assets)
	return &catalog{assets: out, byID: byID}, nil
}

func (c *catalog) Assets() []entity.Asset {
	out := make([]entity.Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

func (c *catalog) AssetByID(id string) (entity.Asset, bool) {
	a, ok := c.byID[id]
	return a, ok
}

func (c *catalog) DefaultAsset() (entity.Asset, bool) {
	if len(c.assets) == 0 {
		return entity.Asset{}, false
	}
	return c.assets[0], true
}
