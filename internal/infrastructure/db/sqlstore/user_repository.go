package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

// Create links the user to existing roles through user_roles without
// touching the role rows themselves.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := userModel{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(user.Roles) > 0 {
			if err := tx.Where("name IN ?", user.Roles).Find(&m.Roles).Error; err != nil {
				return fmt.Errorf("find roles: %w", err)
			}
			if len(m.Roles) != len(user.Roles) {
				return domain.ErrRoleNotFound
			}
		}
		return tx.Omit("Roles.*").Create(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// DeleteByUsername clears the role links before removing the user row.
func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m userModel
		if err := tx.Where("username = ?", username).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&m).Association("Roles").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&m)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return affected, nil
}

type RoleRepository struct {
	db *gorm.DB
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: fmt.Sprint(m.ID), Name: m.Name}, nil
}

func (r *RoleRepository) Create(ctx context.Context, name string) (*domain.Role, error) {
	m := roleModel{Name: name}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &domain.Role{ID: fmt.Sprint(m.ID), Name: m.Name}, nil
}
