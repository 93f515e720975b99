// Package masterdata groups the reference-data modules behind one mount point.
package masterdata

import (
	"github.com/go-chi/chi/v5"

	"github.com/storetrack/storetrack/internal/masterdata/branches"
	"github.com/storetrack/storetrack/internal/masterdata/brands"
	"github.com/storetrack/storetrack/internal/masterdata/categories"
	"github.com/storetrack/storetrack/internal/masterdata/products"
	"github.com/storetrack/storetrack/internal/masterdata/suppliers"
)

// Handlers bundles the per-entity handlers for route mounting.
type Handlers struct {
	Suppliers  *suppliers.Handler
	Categories *categories.Handler
	Brands     *brands.Handler
	Branches   *branches.Handler
	Products   *products.Handler
}

// MountRoutes attaches every masterdata module under its own prefix.
func (h Handlers) MountRoutes(r chi.Router) {
	r.Route("/suppliers", h.Suppliers.MountRoutes)
	r.Route("/categories", h.Categories.MountRoutes)
	r.Route("/brands", h.Brands.MountRoutes)
	r.Route("/branches", h.Branches.MountRoutes)
	r.Route("/products", h.Products.MountRoutes)
}
