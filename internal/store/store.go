// Package store persists members, accounts, attendance events and teams with
// gorm and turns them into scoring snapshots.
package store

import (
	"context"
	"errors"
	"fmt"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db     *gorm.DB
	Broker *Broker

	Members  *MemberRepo
	Accounts *AccountRepo
	Events   *EventRepo
	Teams    *TeamRepo
}

func New(db *gorm.DB, clk clock.Clock) *Store {
	b := NewBroker(clk)
	return &Store{
		db:       db,
		Broker:   b,
		Members:  &MemberRepo{db: db, broker: b},
		Accounts: &AccountRepo{db: db},
		Events:   &EventRepo{db: db, broker: b},
		Teams:    &TeamRepo{db: db, broker: b},
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
