package database

import (
	"context"
	"strings"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// HierarchyStore owns customers, assets, projects and workpacks.
// Deletes never cascade: children of a deleted node keep the dangling id.
type HierarchyStore struct {
	db *gorm.DB
}

func NewHierarchyStore(db *DB) *HierarchyStore {
	return &HierarchyStore{db: db.DB}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

//
// customers
//

func (s *HierarchyStore) CreateCustomer(ctx context.Context, name string) (models.Customer, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Customer{}, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Customer{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return models.Customer{}, storageErr("check customer name", err)
	}
	if count > 0 {
		return models.Customer{}, errors.Wrapf(ErrDuplicateName, "customer %q", name)
	}

	customer := models.Customer{Name: name}
	if err := db.Create(&customer).Error; err != nil {
		return models.Customer{}, translate("create customer", err)
	}
	return customer, nil
}

func (s *HierarchyStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := s.db.WithContext(ctx).Order("name asc").Find(&customers).Error; err != nil {
		return nil, storageErr("list customers", err)
	}
	return customers, nil
}

// GetCustomer loads a customer together with its assets.
func (s *HierarchyStore) GetCustomer(ctx context.Context, id uint) (models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") }).
		First(&customer, id).Error
	if err != nil {
		return models.Customer{}, translate("get customer", err)
	}
	return customer, nil
}

func (s *HierarchyStore) DeleteCustomer(ctx context.Context, id uint) error {
	return deleteByID[models.Customer](s.db.WithContext(ctx), "customer", id)
}

//
// assets
//

func (s *HierarchyStore) CreateAsset(ctx context.Context, customerID uint, name string) (models.Asset, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Asset{}, err
	}
	db := s.db.WithContext(ctx)
	if err := mustExist[models.Customer](db, "customer", customerID); err != nil {
		return models.Asset{}, err
	}

	asset := models.Asset{CustomerID: customerID, Name: name}
	if err := db.Create(&asset).Error; err != nil {
		return models.Asset{}, translate("create asset", err)
	}
	return asset, nil
}

// ListAssets returns the assets of a customer; an unknown customer yields an empty list.
func (s *HierarchyStore) ListAssets(ctx context.Context, customerID uint) ([]models.Asset, error) {
	return listChildren[models.Asset](s.db.WithContext(ctx), "customer_id", customerID)
}

func (s *HierarchyStore) GetAsset(ctx context.Context, id uint) (models.Asset, error) {
	return getByID[models.Asset](s.db.WithContext(ctx), "asset", id)
}

func (s *HierarchyStore) DeleteAsset(ctx context.Context, id uint) error {
	return deleteByID[models.Asset](s.db.WithContext(ctx), "asset", id)
}

//
// projects
//

func (s *HierarchyStore) CreateProject(ctx context.Context, assetID uint, name string) (models.Project, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Project{}, err
	}
	db := s.db.WithContext(ctx)
	if err := mustExist[models.Asset](db, "asset", assetID); err != nil {
		return models.Project{}, err
	}

	project := models.Project{AssetID: assetID, Name: name}
	if err := db.Create(&project).Error; err != nil {
		return models.Project{}, translate("create project", err)
	}
	return project, nil
}

func (s *HierarchyStore) ListProjects(ctx context.Context, assetID uint) ([]models.Project, error) {
	return listChildren[models.Project](s.db.WithContext(ctx), "asset_id", assetID)
}

func (s *HierarchyStore) GetProject(ctx context.Context, id uint) (models.Project, error) {
	return getByID[models.Project](s.db.WithContext(ctx), "project", id)
}

func (s *HierarchyStore) DeleteProject(ctx context.Context, id uint) error {
	return deleteByID[models.Project](s.db.WithContext(ctx), "project", id)
}

//
// workpacks
//

func (s *HierarchyStore) CreateWorkpack(ctx context.Context, projectID uint, name string) (models.Workpack, error) {
	name, err := cleanName(name)
	if err != nil {
		return models.Workpack{}, err
	}
	db := s.db.WithContext(ctx)
	if err := mustExist[models.Project](db, "project", projectID); err != nil {
		return models.Workpack{}, err
	}

	workpack := models.Workpack{ProjectID: projectID, Name: name}
	if err := db.Create(&workpack).Error; err != nil {
		return models.Workpack{}, translate("create workpack", err)
	}
	return workpack, nil
}

func (s *HierarchyStore) ListWorkpacks(ctx context.Context, projectID uint) ([]models.Workpack, error) {
	return listChildren[models.Workpack](s.db.WithContext(ctx), "project_id", projectID)
}

func (s *HierarchyStore) GetWorkpack(ctx context.Context, id uint) (models.Workpack, error) {
	return getByID[models.Workpack](s.db.WithContext(ctx), "workpack", id)
}

func (s *HierarchyStore) DeleteWorkpack(ctx context.Context, id uint) error {
	return deleteByID[models.Workpack](s.db.WithContext(ctx), "workpack", id)
}

//
// helpers shared by every table
//

func mustExist[T any](db *gorm.DB, entity string, id uint) error {
	var count int64
	if err := db.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return storageErr("check "+entity, err)
	}
	if count == 0 {
		return errors.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}

func getByID[T any](db *gorm.DB, entity string, id uint) (T, error) {
	var t T
	if err := db.First(&t, id).Error; err != nil {
		var zero T
		return zero, translate("get "+entity, err)
	}
	return t, nil
}

func listChildren[T any](db *gorm.DB, parentColumn string, parentID uint) ([]T, error) {
	ts := []T{}
	if err := db.Where(parentColumn+" = ?", parentID).Order("name asc, id asc").Find(&ts).Error; err != nil {
		return nil, storageErr("list by "+parentColumn, err)
	}
	return ts, nil
}

func deleteByID[T any](db *gorm.DB, entity string, id uint) error {
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return storageErr("delete "+entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}
