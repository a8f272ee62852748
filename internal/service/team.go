package service

import (
	"context"
	"sort"
	"strings"

	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/store"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type TeamService struct{ store *store.Store }

func NewTeamService(s *store.Store) *TeamService { return &TeamService{store: s} }

// TeamView is a team with its members resolved. Ids of deleted members are
// dropped.
type TeamView struct {
	model.Team
	Members []model.Member `json:"member_details"`
}

// List returns teams of a type by name. Within a team the organist comes
// first, then women, then everyone else, each group alphabetical. A search
// keeps only members whose name contains it and hides teams left empty.
func (s *TeamService) List(ctx context.Context, teamType model.TeamType, search string) ([]TeamView, error) {
	if teamType != "" && !teamType.Valid() {
		return nil, invalid("unknown team type %q", teamType)
	}
	teams, err := s.store.Teams.List(ctx, teamType)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	search = strings.ToLower(strings.TrimSpace(search))
	col := collate.New(language.English, collate.IgnoreCase)
	views := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		v := TeamView{Team: t, Members: []model.Member{}}
		for _, id := range t.MemberIDs {
			m, ok := byID[id]
			if !ok {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(m.Name), search) {
				continue
			}
			v.Members = append(v.Members, m)
		}
		if search != "" && len(v.Members) == 0 {
			continue
		}
		scoring.SortRoster(v.Members)
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool { return col.CompareString(views[i].Name, views[j].Name) < 0 })
	return views, nil
}

func (s *TeamService) Create(ctx context.Context, name string, teamType model.TeamType) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("team name cannot be empty")
	}
	if !teamType.Valid() {
		return nil, invalid("unknown team type %q", teamType)
	}
	t := &model.Team{Name: name, Type: teamType, MemberIDs: []string{}}
	if err := s.store.Teams.Create(ctx, t); err != nil {
		return nil, err
	}
	logger.Info("team.create", "id", t.ID, "name", t.Name, "type", t.Type)
	return t, nil
}

// Update renames a team and replaces its member list. An empty name keeps
// the current one.
func (s *TeamService) Update(ctx context.Context, id, name string, memberIDs []string) (*model.Team, error) {
	t, err := s.store.Teams.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		t.Name = name
	}
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	seen := map[string]bool{}
	t.MemberIDs = []string{}
	for _, mid := range memberIDs {
		if !known[mid] {
			return nil, invalid("unknown member %s", mid)
		}
		if !seen[mid] {
			seen[mid] = true
			t.MemberIDs = append(t.MemberIDs, mid)
		}
	}
	if err := s.store.Teams.Update(ctx, t); err != nil {
		return nil, err
	}
	logger.Info("team.update", "id", t.ID, "members", len(t.MemberIDs))
	return t, nil
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.store.Teams.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("team.delete", "id", id)
	return nil
}

// Unassigned lists members in no team of the given type, alphabetically.
func (s *TeamService) Unassigned(ctx context.Context, teamType model.TeamType) ([]model.Member, error) {
	if !teamType.Valid() {
		return nil, invalid("unknown team type %q", teamType)
	}
	teams, err := s.store.Teams.List(ctx, teamType)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return nil, err
	}
	assigned := map[string]bool{}
	for _, t := range teams {
		for _, id := range t.MemberIDs {
			assigned[id] = true
		}
	}
	out := []model.Member{}
	for _, m := range members {
		if !assigned[m.ID] {
			out = append(out, m)
		}
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

// Report is the roster sheet of every team of one type.
func (s *TeamService) Report(ctx context.Context, teamType model.TeamType) (scoring.Report, error) {
	if !teamType.Valid() {
		return scoring.Report{}, invalid("unknown team type %q", teamType)
	}
	teams, err := s.store.Teams.List(ctx, teamType)
	if err != nil {
		return scoring.Report{}, err
	}
	members, err := s.store.Members.List(ctx)
	if err != nil {
		return scoring.Report{}, err
	}
	return scoring.TeamReport(teams, members, teamType), nil
}
