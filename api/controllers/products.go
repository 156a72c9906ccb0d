package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/api/responses"
	"github.com/hamadpass/khodarji-backend/api/validators"
	"github.com/hamadpass/khodarji-backend/internal/catalog"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

type localizedStringRequest struct {
	En string `json:"en" validate:"required"`
	Ar string `json:"ar" validate:"required"`
}

type productRequest struct {
	ID          string                  `json:"id"`
	Name        localizedStringRequest  `json:"name" validate:"required"`
	Category    string                  `json:"category" validate:"required"`
	Price       decimal.Decimal         `json:"price" validate:"required"`
	Image       string                  `json:"image"`
	Unit        string                  `json:"unit" validate:"required"`
	Organic     bool                    `json:"organic"`
	Description *localizedStringRequest `json:"description"`
}

func (p productRequest) toProduct() types.Product {
	product := types.Product{
		ID:       p.ID,
		Name:     types.LocalizedString{En: p.Name.En, Ar: p.Name.Ar},
		Category: enums.ProductCategory(p.Category),
		Price:    p.Price,
		Image:    p.Image,
		Unit:     p.Unit,
		Organic:  p.Organic,
	}
	if p.Description != nil {
		product.Description = &types.LocalizedString{En: p.Description.En, Ar: p.Description.Ar}
	}
	return product
}

// ListProducts returns the catalog, seeding it on first call. The category
// and q query params narrow the listing; both are applied after the read so
// the stored catalog stays untouched.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if category != "" {
			parsed, parseErr := enums.ParseProductCategory(category)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			products = filterProducts(products, func(p types.Product) bool {
				return p.Category == parsed
			})
		}

		if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
			products = filterProducts(products, func(p types.Product) bool {
				return strings.Contains(strings.ToLower(p.Name.En), q) ||
					strings.Contains(strings.ToLower(p.Name.Ar), q)
			})
		}

		responses.WriteSuccess(w, products)
	}
}

func filterProducts(products []types.Product, keep func(types.Product) bool) []types.Product {
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// CreateProduct inserts a new catalog entry.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		saved, err := svc.Save(r.Context(), body.toProduct())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

// UpdateProduct replaces the catalog entry at the path id.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product := body.toProduct()
		product.ID = chi.URLParam(r, "productId")

		saved, err := svc.Save(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

// DeleteProduct removes a catalog entry; an unknown id is already gone.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
