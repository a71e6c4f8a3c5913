package admin

import (
	"net/http"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListCategories returns the tree the editor builds its selects from
func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := ar.catalogService.ListCategoryTree(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "Unable to load categories", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(tree), gecho.Send())
}

func (ar *AdminRoutesManager) AddCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please check the category name and try again"), gecho.Send())
		return
	}

	category, err := ar.categoryService.AddCategory(r.Context(), body.Name)
	if err != nil {
		handling.HandleServiceError(err, "Unable to add category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category added"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please check the category name and try again"), gecho.Send())
		return
	}

	if err := ar.categoryService.RenameCategory(r.Context(), id, body.Name); err != nil {
		handling.HandleServiceError(err, "Unable to rename category", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category renamed"), gecho.Send())
}

// MoveCategory swaps the category with its neighbour. Moving past either end
// answers 200 with moved=false and the unchanged list.
func (ar *AdminRoutesManager) MoveCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.MoveCategoryRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Direction must be up or down"), gecho.Send())
		return
	}

	result, err := ar.categoryService.MoveCategory(r.Context(), id, body.Direction)
	if err != nil {
		if result != nil {
			ar.logger.Error("Category move failed, returning fresh order", gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("Unable to move category. The current order has been reloaded"),
				gecho.WithData(result),
				gecho.Send(),
			)
			return
		}
		handling.HandleServiceError(err, "Unable to move category", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

// DeleteCategory removes the category and its sub-categories; requires ?confirm=true
func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := ar.categoryService.DeleteCategory(r.Context(), id, lib.IsConfirmed(r)); err != nil {
		handling.HandleServiceError(err, "Unable to delete category", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Category deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) AddSubCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please check the sub-category name and try again"), gecho.Send())
		return
	}

	sub, err := ar.categoryService.AddSubCategory(r.Context(), categoryID, body.Name)
	if err != nil {
		handling.HandleServiceError(err, "Unable to add sub-category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Sub-category added"),
		gecho.WithData(sub),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) RenameSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Please check the sub-category name and try again"), gecho.Send())
		return
	}

	if err := ar.categoryService.RenameSubCategory(r.Context(), id, body.Name); err != nil {
		handling.HandleServiceError(err, "Unable to rename sub-category", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Sub-category renamed"), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := ar.categoryService.DeleteSubCategory(r.Context(), id, lib.IsConfirmed(r)); err != nil {
		handling.HandleServiceError(err, "Unable to delete sub-category", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Sub-category deleted"), gecho.Send())
}
