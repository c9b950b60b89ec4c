package port

import "wallet_core/internal/domain/entity"

// CatalogProvider defines the interface for accessing the static asset catalog.
type CatalogProvider interface {
	// Assets returns every tracked asset in catalog order.
	Assets() []entity.Asset

	// AssetByID looks an asset up by its catalog identifier.
	AssetByID(id string) (entity.Asset, bool)

	// DefaultAsset returns the asset used when a caller supplies none
	// (the first catalog entry).
	DefaultAsset() (entity.Asset, bool)
}
