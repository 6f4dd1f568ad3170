package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/project-tracker/internal"
	roleDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/project-tracker/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update saves row and, when the name changed, moves every user holding
// previousName over to the new name in the same transaction.
func (r *RoleRepository) Update(ctx context.Context, row *roleDatamodel.Role, previousName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		if previousName == "" || previousName == row.Name {
			return nil
		}
		return tx.Model(&userDatamodel.User{}).
			Where("role = ?", previousName).
			Update("role", row.Name).Error
	})
}

// Delete removes the role unless a user still holds it, in which case it
// returns internal.ErrRoleInUse.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row roleDatamodel.Role
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrRoleNotFound
			}
			return err
		}

		var holders int64
		if err := tx.Model(&userDatamodel.User{}).Where("role = ?", row.Name).Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return internal.ErrRoleInUse.WithDetails(map[string]int64{"users": holders})
		}

		return tx.Delete(&roleDatamodel.Role{}, id).Error
	})
}
