package admin

import (
	"net/http"

	"eterna_server/api/middleware"
	"eterna_server/lib"
	"eterna_server/services"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	cfg             *structs.Config
	catalogService  *services.CatalogService
	categoryService *services.CategoryService
	productService  *services.ProductService
	noticeService   *services.NoticeService
	uploadService   *services.UploadService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		cfg:             cfg,
		catalogService:  sm.CatalogService,
		categoryService: sm.CategoryService,
		productService:  sm.ProductService,
		noticeService:   sm.NoticeService,
		uploadService:   sm.UploadService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)
		r.Use(ar.mw.CSRFMiddleware())

		r.Get("/dashboard", ar.Dashboard)

		r.Get("/categories", ar.ListCategories)
		r.Post("/categories", ar.AddCategory)
		r.Put("/categories/{id}", ar.RenameCategory)
		r.Post("/categories/{id}/move", ar.MoveCategory)
		r.Delete("/categories/{id}", ar.DeleteCategory)
		r.Post("/categories/{id}/sub-categories", ar.AddSubCategory)
		r.Put("/sub-categories/{id}", ar.RenameSubCategory)
		r.Delete("/sub-categories/{id}", ar.DeleteSubCategory)

		r.Get("/products", ar.Dashboard)
		r.Post("/products", ar.SubmitProduct)
		r.Get("/products/{id}", ar.GetProduct)
		r.Put("/products/{id}", ar.SubmitProduct)
		r.Delete("/products/{id}", ar.DeleteProduct)

		r.Post("/uploads", ar.UploadImages)
		r.Post("/images/remove", RemoveImage)

		r.Get("/notices", ar.ListNotices)
		r.Post("/notices", ar.CreateNotice)
		r.Put("/notices/{id}", ar.UpdateNotice)
		r.Delete("/notices/{id}", ar.DeleteNotice)
		r.Post("/notices/{id}/toggle", ar.ToggleNotice)
	})
}

// pathID parses the {id} URL parameter and answers 400 when it is not a positive integer
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := lib.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid id"), gecho.Send())
		return 0, false
	}
	return id, true
}
