package products

import (
	"net/http"

	"eterna_server/handling"
	"eterna_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchCategoryTree handles GET /categories
func (prm *ProductRoutesManager) FetchCategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := prm.catalogService.ListCategoryTree(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "Unable to load categories", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(tree),
		gecho.Send(),
	)
}

// FetchProducts handles GET /products with the storefront category, sub-category and search filters
func (prm *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	filter := handling.ParseCatalogFilter(r)

	views, err := prm.catalogService.ListProductViews(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "Unable to load products", prm.logger, w)
		return
	}

	products := services.FilterProducts(views, filter)
	prm.logger.Debug("Fetched products",
		gecho.Field("category", filter.Category),
		gecho.Field("sub_category", filter.SubCategory),
		gecho.Field("search", filter.Search),
		gecho.Field("count", len(products)),
	)

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"filter":   filter,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (prm *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	view, err := prm.catalogService.GetProductView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handling.HandleServiceError(err, "Unable to load product", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}
