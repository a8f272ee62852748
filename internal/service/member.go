package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"
)

type MemberService struct {
	store           *store.Store
	defaultPassword string
	clk             clock.Clock
	loc             *time.Location
}

func NewMemberService(s *store.Store, defaultPassword string, clk clock.Clock, loc *time.Location) *MemberService {
	return &MemberService{store: s, defaultPassword: defaultPassword, clk: clk, loc: loc}
}

func (s *MemberService) List(ctx context.Context) ([]model.Member, error) {
	return s.store.Members.List(ctx)
}

func (s *MemberService) Get(ctx context.Context, id string) (*model.Member, error) {
	return s.store.Members.Get(ctx, id)
}

// Create stores a new member. A member with an e-mail address also gets a
// login whose password is the configured default.
func (s *MemberService) Create(ctx context.Context, m *model.Member) error {
	m.ID = ""
	if err := normalizeMember(m); err != nil {
		return err
	}
	if m.Email == "" {
		return s.store.Members.Create(ctx, m)
	}

	username := normalizeUsername(m.Email)
	if err := s.usernameFree(ctx, username, ""); err != nil {
		return err
	}
	hash, err := hashPassword(s.defaultPassword)
	if err != nil {
		return err
	}
	acct := &model.Account{Username: username, Password: hash, Name: m.Name, Role: model.RoleMember}
	if err := s.store.Members.CreateWithAccount(ctx, m, acct); err != nil {
		return err
	}
	logger.Info("member.create", "id", m.ID, "name", m.Name, "account", username)
	return nil
}

func (s *MemberService) Update(ctx context.Context, m *model.Member) error {
	if err := normalizeMember(m); err != nil {
		return err
	}
	existing, err := s.store.Members.Get(ctx, m.ID)
	if err != nil {
		return err
	}
	m.CreatedAt = existing.CreatedAt
	username := normalizeUsername(m.Email)
	if username != "" {
		if err := s.usernameFree(ctx, username, m.ID); err != nil {
			return err
		}
	}
	if err := s.store.Members.Update(ctx, m); err != nil {
		return err
	}
	return s.syncAccount(ctx, m, username)
}

// UpdateProfile applies a member's edit of their own record. Choir roles are
// kept as the admin set them.
func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, in *model.Member) (*model.Member, error) {
	existing, err := s.store.Members.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	in.ID = existing.ID
	in.IsOrganist = existing.IsOrganist
	in.IsSoundEngineer = existing.IsSoundEngineer
	in.IsPresentationSpecialist = existing.IsPresentationSpecialist
	if err := s.Update(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// Delete removes the member and their login. Their attendance history stays.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.store.Members.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("member.delete", "id", id)
	return nil
}

type Celebrations struct {
	Birthdays     []scoring.Celebration `json:"birthdays"`
	Anniversaries []scoring.Celebration `json:"anniversaries"`
}

func (s *MemberService) Celebrations(ctx context.Context) (Celebrations, error) {
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return Celebrations{}, err
	}
	b, a := scoring.Celebrations(members, s.clk.Now().In(s.loc))
	if b == nil {
		b = []scoring.Celebration{}
	}
	if a == nil {
		a = []scoring.Celebration{}
	}
	return Celebrations{Birthdays: b, Anniversaries: a}, nil
}

func (s *MemberService) usernameFree(ctx context.Context, username, memberID string) error {
	a, err := s.store.Accounts.ByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if memberID != "" && a.MemberID != nil && *a.MemberID == memberID {
		return nil
	}
	return fmt.Errorf("%w: %s is already in use", ErrConflict, username)
}

func (s *MemberService) syncAccount(ctx context.Context, m *model.Member, username string) error {
	_, err := s.store.Accounts.ByMember(ctx, m.ID)
	if err == nil {
		return s.store.Accounts.SyncMember(ctx, m.ID, m.Name, username)
	}
	if !errors.Is(err, store.ErrNotFound) || username == "" {
		return nil
	}
	hash, err := hashPassword(s.defaultPassword)
	if err != nil {
		return err
	}
	id := m.ID
	return s.store.Accounts.Create(ctx, &model.Account{
		Username: username, Password: hash, Name: m.Name, Role: model.RoleMember, MemberID: &id,
	})
}

func normalizeMember(m *model.Member) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Email = strings.TrimSpace(m.Email)
	if m.Name == "" {
		return invalid("name is required")
	}
	if m.Phone == "" {
		return invalid("phone is required")
	}
	if m.Gender != "" && !m.Gender.Valid() {
		return invalid("unknown gender %q", m.Gender)
	}
	if m.DOB != "" {
		if _, ok := scoring.ParseDate(m.DOB); !ok {
			return invalid("date of birth %q is not YYYY-MM-DD", m.DOB)
		}
	}
	if m.MaritalStatus != model.MaritalMarried {
		m.WeddingDate = ""
	} else if m.WeddingDate != "" {
		if _, ok := scoring.ParseDate(m.WeddingDate); !ok {
			return invalid("wedding date %q is not YYYY-MM-DD", m.WeddingDate)
		}
	}
	return nil
}
