package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minimalstore/storefront-api/api/responses"
	"github.com/minimalstore/storefront-api/api/validators"
	"github.com/minimalstore/storefront-api/internal/products"
	pkgerrors "github.com/minimalstore/storefront-api/pkg/errors"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/pagination"
)

// ProductList serves the public catalog listing with filters.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inStock, err := validators.ParseQueryBool(r, "inStock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := products.ListFilters{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Featured: featured,
			InStock:  inStock,
			Sort:     strings.TrimSpace(r.URL.Query().Get("sort")),
		}

		list, meta, err := svc.List(r.Context(), filters, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, list, meta)
	}
}

// ProductDetail resolves a product by UUID or slug.
func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
