package admin

import (
	"net/http"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/services"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// Dashboard lists products newest first for a category tab, with the admin price placeholder
func (ar *AdminRoutesManager) Dashboard(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	views, err := ar.catalogService.ListDashboard(r.Context(), category)
	if err != nil {
		handling.HandleServiceError(err, "Unable to load products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": views,
			"category": category,
			"count":    len(views),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := ar.productService.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handling.HandleServiceError(err, "Unable to load product", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(product), gecho.Send())
}

// SubmitProduct creates a product on POST and updates the one in the path on PUT
func (ar *AdminRoutesManager) SubmitProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductForm](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the product information and try again", ar.logger, w)
		return
	}

	body.ID = ""
	if id := chi.URLParam(r, "id"); id != "" {
		body.ID = id
	}

	if err := services.ValidateProductForm(body); err != nil {
		handling.HandleServiceError(err, "Please check the product information and try again", ar.logger, w)
		return
	}

	tree, err := ar.catalogService.ListCategoryTree(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "Unable to load categories", ar.logger, w)
		return
	}

	product, err := ar.productService.SubmitProduct(r.Context(), body, services.BuildSubCategoryIndex(tree))
	if err != nil {
		handling.HandleServiceError(err, "Unable to save product. Please try again", ar.logger, w)
		return
	}

	message := "Product created successfully"
	if body.ID != "" {
		message = "Product updated successfully"
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// DeleteProduct removes a product; requires ?confirm=true
func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := ar.productService.DeleteProduct(r.Context(), chi.URLParam(r, "id"), lib.IsConfirmed(r)); err != nil {
		handling.HandleServiceError(err, "Unable to delete product", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Product deleted successfully"), gecho.Send())
}
