package repository

import (
	"context"

	"resourceshop/internal/app/ds"
)

// Packages

func (r *Repository) ListPackages(ctx context.Context, enabledOnly bool) ([]ds.ResourcePackage, error) {
	var packages []ds.ResourcePackage
	q := r.db.WithContext(ctx).Order("sort_order ASC").Order("id ASC")
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	err := q.Find(&packages).Error
	return packages, err
}

func (r *Repository) GetPackage(ctx context.Context, id uint) (*ds.ResourcePackage, error) {
	var pkg ds.ResourcePackage
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &pkg, nil
}

func (r *Repository) CreatePackage(ctx context.Context, pkg *ds.ResourcePackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// UpdatePackage applies column updates and returns the stored row.
func (r *Repository) UpdatePackage(ctx context.Context, id uint, columns map[string]interface{}) (*ds.ResourcePackage, error) {
	pkg, err := r.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if err := r.db.WithContext(ctx).Model(pkg).Updates(columns).Error; err != nil {
			return nil, err
		}
	}
	return r.GetPackage(ctx, id)
}

// DeletePackage removes a package unless purchases still reference it.
func (r *Repository) DeletePackage(ctx context.Context, id uint) error {
	var refs int64
	if err := r.db.WithContext(ctx).Model(&ds.Purchase{}).Where("package_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}

	result := r.db.WithContext(ctx).Delete(&ds.ResourcePackage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Individual resources

func (r *Repository) ListResources(ctx context.Context, enabledOnly bool) ([]ds.IndividualResource, error) {
	var resources []ds.IndividualResource
	q := r.db.WithContext(ctx).Order("sort_order ASC").Order("id ASC")
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	err := q.Find(&resources).Error
	return resources, err
}

func (r *Repository) GetResource(ctx context.Context, id uint) (*ds.IndividualResource, error) {
	var res ds.IndividualResource
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

func (r *Repository) CreateResource(ctx context.Context, res *ds.IndividualResource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *Repository) UpdateResource(ctx context.Context, id uint, columns map[string]interface{}) (*ds.IndividualResource, error) {
	res, err := r.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if err := r.db.WithContext(ctx).Model(res).Updates(columns).Error; err != nil {
			return nil, err
		}
	}
	return r.GetResource(ctx, id)
}

func (r *Repository) DeleteResource(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&ds.IndividualResource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
