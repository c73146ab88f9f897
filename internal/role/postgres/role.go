package postgres

import (
	"context"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/database"
	roleDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/role"
	userDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/user"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &row, nil
}

// FindByName matches case-insensitively; names are unique regardless of case.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&row).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &row, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*roleDatamodel.Role, error) {
	var rows []*roleDatamodel.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return internal.ErrDuplicateRoleName
		}
		return err
	}
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, row *roleDatamodel.Role) error {
	// struct updates keep the json serializer on the permissions column
	res := r.db.WithContext(ctx).Model(row).Select("name", "permissions", "updated_at").Updates(row)
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return internal.ErrDuplicateRoleName
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&roleDatamodel.Role{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) CountUsers(ctx context.Context, roleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}
