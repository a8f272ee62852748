package store

import (
	"context"
	"fmt"

	"choir-attendance/internal/model"

	"gorm.io/gorm"
)

type AccountRepo struct{ db *gorm.DB }

func (r *AccountRepo) Get(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AccountRepo) ByUsername(ctx context.Context, username string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AccountRepo) ByMember(ctx context.Context, memberID string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) SetPassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SyncMember keeps the login name and username of a member's account in step
// with the member record.
func (r *AccountRepo) SyncMember(ctx context.Context, memberID, name, username string) error {
	updates := map[string]any{"name": name}
	if username != "" {
		updates["username"] = username
	}
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("member_id = ?", memberID).Updates(updates).Error; err != nil {
		return fmt.Errorf("sync account: %w", err)
	}
	return nil
}
