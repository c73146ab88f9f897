package postgres

import (
	"context"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/database"
	userDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/user"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &row, nil
}

// FindByEmail expects an already normalized address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, database.NotFound(err)
	}
	return &row, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *UserRepository) Create(ctx context.Context, row *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return internal.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, row *userDatamodel.User) error {
	res := r.db.WithContext(ctx).Model(row).
		Select("name", "email", "password_hash", "role_id", "status", "updated_at").
		Updates(row)
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return internal.ErrDuplicateEmail
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotFound
	}
	return nil
}
