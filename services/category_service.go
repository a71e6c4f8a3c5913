package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"eterna_server/database"
	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// categoryStore is the persistence the category manager needs
type categoryStore interface {
	ListOrdered(ctx context.Context) ([]tables.Category, error)
	LastCategory(ctx context.Context) (*tables.Category, error)
	InsertCategory(ctx context.Context, category *tables.Category) (*tables.Category, error)
	SetCategoryOrder(ctx context.Context, id int64, order int) error
	RenameCategory(ctx context.Context, id int64, name string) (int, error)
	DeleteCategory(ctx context.Context, id int64) (int, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	InsertSubCategory(ctx context.Context, sub *tables.SubCategory) (*tables.SubCategory, error)
	RenameSubCategory(ctx context.Context, id int64, name string) (int, error)
	DeleteSubCategory(ctx context.Context, id int64) (int, error)
	FindSubCategoryByName(ctx context.Context, name string) (*tables.SubCategory, error)
}

type sqlCategoryStore struct {
	db *database.DB
}

func (s *sqlCategoryStore) ListOrdered(ctx context.Context) ([]tables.Category, error) {
	return database.Query[tables.Category](s.db).
		OrderBy("order", database.ASC).
		OrderBy("id", database.ASC).
		All(ctx)
}

func (s *sqlCategoryStore) LastCategory(ctx context.Context) (*tables.Category, error) {
	return database.Query[tables.Category](s.db).
		Select("order").
		OrderBy("order", database.DESC).
		First(ctx)
}

func (s *sqlCategoryStore) InsertCategory(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	return database.Query[tables.Category](s.db).Insert(ctx, category)
}

func (s *sqlCategoryStore) SetCategoryOrder(ctx context.Context, id int64, order int) error {
	_, err := database.Query[tables.Category](s.db).Where("id", id).Update(ctx, map[string]any{"order": order})
	return err
}

func (s *sqlCategoryStore) RenameCategory(ctx context.Context, id int64, name string) (int, error) {
	return database.Query[tables.Category](s.db).Where("id", id).Update(ctx, map[string]any{"name": name})
}

func (s *sqlCategoryStore) DeleteCategory(ctx context.Context, id int64) (int, error) {
	return database.DeleteByID[tables.Category](ctx, s.db, id)
}

func (s *sqlCategoryStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return database.ExistsByID[tables.Category](ctx, s.db, id)
}

func (s *sqlCategoryStore) InsertSubCategory(ctx context.Context, sub *tables.SubCategory) (*tables.SubCategory, error) {
	return database.Query[tables.SubCategory](s.db).Insert(ctx, sub)
}

func (s *sqlCategoryStore) RenameSubCategory(ctx context.Context, id int64, name string) (int, error) {
	return database.Query[tables.SubCategory](s.db).Where("id", id).Update(ctx, map[string]any{"name": name})
}

func (s *sqlCategoryStore) DeleteSubCategory(ctx context.Context, id int64) (int, error) {
	return database.DeleteByID[tables.SubCategory](ctx, s.db, id)
}

func (s *sqlCategoryStore) FindSubCategoryByName(ctx context.Context, name string) (*tables.SubCategory, error) {
	return database.Query[tables.SubCategory](s.db).
		Where("name", name).
		OrderBy("id", database.ASC).
		First(ctx)
}

type CategoryService struct {
	logger *gecho.Logger
	store  categoryStore
	cache  catalogInvalidator
}

func NewCategoryService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *CategoryService {
	return &CategoryService{
		logger: logger,
		store:  &sqlCategoryStore{db: db},
		cache:  cacheService,
	}
}

// ListOrdered reads the authoritative category order, bypassing the cache
func (cs *CategoryService) ListOrdered(ctx context.Context) ([]tables.Category, error) {
	categories, err := cs.store.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", lib.MapPgError(err))
	}
	return categories, nil
}

// AddCategory appends a category after the current last position
func (cs *CategoryService) AddCategory(ctx context.Context, name string) (*tables.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, lib.ErrEmptyName
	}

	nextOrder, err := cs.nextOrder(ctx)
	if err != nil {
		return nil, err
	}

	category, err := cs.store.InsertCategory(ctx, &tables.Category{
		Name:  name,
		Order: nextOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add category: %w", lib.MapPgError(err))
	}

	cs.logger.Info("Category added", gecho.Field("id", category.ID), gecho.Field("order", category.Order))
	invalidateCatalog(cs.cache)
	return category, nil
}

// nextOrder is the highest order value plus one, or 1 for an empty table.
// Two concurrent adds may read the same maximum; the duplicate is tolerated.
func (cs *CategoryService) nextOrder(ctx context.Context) (int, error) {
	last, err := cs.store.LastCategory(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read category order: %w", lib.MapPgError(err))
	}
	if last == nil {
		return 1, nil
	}
	return last.Order + 1, nil
}

// MoveCategory swaps a category with its neighbour in the given direction.
// The two rows are written independently; if either write fails the list is
// read again so the caller never keeps a half-applied order.
func (cs *CategoryService) MoveCategory(ctx context.Context, id int64, direction structs.MoveDirection) (*structs.CategoryMoveResult, error) {
	current, err := cs.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	swapped, changed, moved := ApplyCategorySwap(current, id, direction)
	if !moved {
		return &structs.CategoryMoveResult{Moved: false, Categories: swapped}, nil
	}

	if err := cs.persistSwap(ctx, changed); err != nil {
		cs.logger.Error("Failed to persist category move",
			gecho.Field("id", id),
			gecho.Field("direction", direction),
			gecho.Field("error", err),
		)
		invalidateCatalog(cs.cache)

		fresh, refetchErr := cs.ListOrdered(ctx)
		if refetchErr != nil {
			return nil, err
		}
		return &structs.CategoryMoveResult{Moved: false, Categories: fresh}, err
	}

	invalidateCatalog(cs.cache)
	return &structs.CategoryMoveResult{Moved: true, Categories: swapped}, nil
}

func (cs *CategoryService) persistSwap(ctx context.Context, changed []tables.Category) error {
	for _, c := range changed {
		if err := cs.store.SetCategoryOrder(ctx, c.ID, c.Order); err != nil {
			return fmt.Errorf("failed to update order of category %d: %w", c.ID, lib.MapPgError(err))
		}
	}
	return nil
}

// ApplyCategorySwap returns the list with the category moved one position and
// the two rows whose order values changed. An unknown id or a move past either
// end leaves the list as it was and reports moved=false.
func ApplyCategorySwap(categories []tables.Category, id int64, direction structs.MoveDirection) ([]tables.Category, []tables.Category, bool) {
	out := slices.Clone(categories)

	index := slices.IndexFunc(out, func(c tables.Category) bool { return c.ID == id })
	if index < 0 {
		return out, nil, false
	}

	target := index - 1
	if direction == structs.MoveDown {
		target = index + 1
	} else if direction != structs.MoveUp {
		return out, nil, false
	}
	if target < 0 || target >= len(out) {
		return out, nil, false
	}

	current, neighbour := out[index], out[target]
	current.Order, neighbour.Order = neighbour.Order, current.Order
	out[index], out[target] = neighbour, current

	return out, []tables.Category{current, neighbour}, true
}

// RenameCategory changes a category's display name
func (cs *CategoryService) RenameCategory(ctx context.Context, id int64, name string) error {
	return cs.rename(ctx, id, name, cs.store.RenameCategory)
}

// DeleteCategory removes a category and, through the foreign key, its
// sub-categories. Products of those sub-categories become uncategorized.
func (cs *CategoryService) DeleteCategory(ctx context.Context, id int64, confirmed bool) error {
	return cs.delete(ctx, confirmed, "category", id, cs.store.DeleteCategory)
}

// AddSubCategory creates a sub-category under an existing category
func (cs *CategoryService) AddSubCategory(ctx context.Context, categoryID int64, name string) (*tables.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, lib.ErrEmptyName
	}

	exists, err := cs.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", lib.MapPgError(err))
	}
	if !exists {
		return nil, lib.ErrNotFound
	}

	sub, err := cs.store.InsertSubCategory(ctx, &tables.SubCategory{
		CategoryID: categoryID,
		Name:       name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add sub-category: %w", lib.MapPgError(err))
	}

	invalidateCatalog(cs.cache)
	return sub, nil
}

// RenameSubCategory changes a sub-category's display name
func (cs *CategoryService) RenameSubCategory(ctx context.Context, id int64, name string) error {
	return cs.rename(ctx, id, name, cs.store.RenameSubCategory)
}

// DeleteSubCategory removes a sub-category; its products keep existing without one
func (cs *CategoryService) DeleteSubCategory(ctx context.Context, id int64, confirmed bool) error {
	return cs.delete(ctx, confirmed, "sub-category", id, cs.store.DeleteSubCategory)
}

// FindSubCategoryByName is the fallback when the editor's cached tree is stale
func (cs *CategoryService) FindSubCategoryByName(ctx context.Context, name string) (*tables.SubCategory, error) {
	sub, err := cs.store.FindSubCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sub-category: %w", lib.MapPgError(err))
	}
	return sub, nil
}

func (cs *CategoryService) rename(ctx context.Context, id int64, name string, update func(context.Context, int64, string) (int, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return lib.ErrEmptyName
	}

	affected, err := update(ctx, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	invalidateCatalog(cs.cache)
	return nil
}

func (cs *CategoryService) delete(ctx context.Context, confirmed bool, kind string, id int64, del func(context.Context, int64) (int, error)) error {
	if !confirmed {
		return lib.ErrConfirmationRequired
	}

	affected, err := del(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	cs.logger.Info("Deleted "+kind, gecho.Field("id", id))
	invalidateCatalog(cs.cache)
	return nil
}
