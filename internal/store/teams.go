package store

import (
	"context"
	"fmt"

	"choir-attendance/internal/model"

	"gorm.io/gorm"
)

type TeamRepo struct {
	db     *gorm.DB
	broker *Broker
}

func (r *TeamRepo) Get(ctx context.Context, id string) (*model.Team, error) {
	var t model.Team
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// List returns teams of the given type, or all teams when teamType is empty.
func (r *TeamRepo) List(ctx context.Context, teamType model.TeamType) ([]model.Team, error) {
	q := r.db.WithContext(ctx).Order("created_at, name")
	if teamType != "" {
		q = q.Where("type = ?", teamType)
	}
	var ts []model.Team
	if err := q.Find(&ts).Error; err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return ts, nil
}

func (r *TeamRepo) Create(ctx context.Context, t *model.Team) error {
	if t.MemberIDs == nil {
		t.MemberIDs = []string{}
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	r.broker.Publish(KindTeam, OpCreate, t.ID)
	return nil
}

func (r *TeamRepo) Update(ctx context.Context, t *model.Team) error {
	if t.MemberIDs == nil {
		t.MemberIDs = []string{}
	}
	if _, err := r.Get(ctx, t.ID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&model.Team{ID: t.ID}).Select("Name", "MemberIDs").Updates(t).Error
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	r.broker.Publish(KindTeam, OpUpdate, t.ID)
	return nil
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Team{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.broker.Publish(KindTeam, OpDelete, id)
	return nil
}
