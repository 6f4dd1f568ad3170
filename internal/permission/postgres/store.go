package postgres

import (
	"context"
	"errors"

	roleDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/project-tracker/internal/permission"
	"gorm.io/gorm"
)

type RoleStore struct {
	db *gorm.DB
}

func NewRoleStore(db *gorm.DB) permission.RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) UserRole(ctx context.Context, uid string) (string, bool, error) {
	var u userDatamodel.User
	err := s.db.WithContext(ctx).Select("role").Where("uid = ?", uid).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return u.Role, true, nil
}

func (s *RoleStore) RolePermissions(ctx context.Context, roleName string) ([]string, bool, error) {
	var r roleDatamodel.Role
	err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []string(r.Permissions), true, nil
}
