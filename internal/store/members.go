package store

import (
	"context"
	"fmt"

	"choir-attendance/internal/model"

	"gorm.io/gorm"
)

type MemberRepo struct {
	db     *gorm.DB
	broker *Broker
}

func (r *MemberRepo) Get(ctx context.Context, id string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MemberRepo) List(ctx context.Context) ([]model.Member, error) {
	var ms []model.Member
	if err := r.db.WithContext(ctx).Order("name, id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return ms, nil
}

func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	r.broker.Publish(KindMember, OpCreate, m.ID)
	return nil
}

// CreateWithAccount inserts the member and its login in one transaction.
func (r *MemberRepo) CreateWithAccount(ctx context.Context, m *model.Member, a *model.Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		a.MemberID = &m.ID
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.broker.Publish(KindMember, OpCreate, m.ID)
	return nil
}

func (r *MemberRepo) Update(ctx context.Context, m *model.Member) error {
	res := r.db.WithContext(ctx).Model(&model.Member{ID: m.ID}).
		Select("*").Omit("id", "created_at").Updates(m)
	if res.Error != nil {
		return fmt.Errorf("update member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.broker.Publish(KindMember, OpUpdate, m.ID)
	return nil
}

// Delete removes the member and its account. Attendance records naming the
// member are history and stay.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Member{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete member: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Delete(&model.Account{}, "member_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.broker.Publish(KindMember, OpDelete, id)
	return nil
}
