package services

import (
	"eterna_server/database"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	logger *gecho.Logger

	AuthService     *AuthService
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CatalogService  *CatalogService
	CategoryService *CategoryService
	ProductService  *ProductService
	NoticeService   *NoticeService
	VisitorService  *VisitorService
	UploadService   *UploadService
	SeedService     *SeedService
	ImportService   *ImportService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	authService := NewAuthService(cfg, logger, db, cacheService, emailService)
	healthService := NewHealthService(logger, db, cacheService)
	catalogService := NewCatalogService(logger, db, cacheService)
	categoryService := NewCategoryService(logger, db, cacheService)
	productService := NewProductService(logger, db, cacheService, categoryService)

	return &ServiceManager{
		logger:          logger,
		AuthService:     authService,
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   healthService,
		CatalogService:  catalogService,
		CategoryService: categoryService,
		ProductService:  productService,
		NoticeService:   NewNoticeService(logger, cfg, db),
		VisitorService:  NewVisitorService(logger, db),
		UploadService:   NewUploadService(logger, cfg),
		SeedService:     NewSeedService(logger, db, cacheService),
		ImportService:   NewImportService(logger, db, cacheService, categoryService),
	}
}

// Close releases clients that hold network resources
func (sm *ServiceManager) Close() {
	if err := sm.UploadService.Close(); err != nil {
		sm.logger.Warn("Failed to close storage client", gecho.Field("error", err))
	}
	if err := sm.CacheService.Close(); err != nil {
		sm.logger.Warn("Failed to close cache client", gecho.Field("error", err))
	}
}
