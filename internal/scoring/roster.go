package scoring

import (
	"fmt"
	"sort"

	"choir-attendance/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const ReportTeams ReportKind = "teams"

// SortRoster puts the organist first, then women, then everyone else, each
// group alphabetical.
func SortRoster(members []model.Member) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.IsOrganist != b.IsOrganist {
			return a.IsOrganist
		}
		if fa, fb := a.Gender == model.GenderFemale, b.Gender == model.GenderFemale; fa != fb {
			return fa
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}

func teamsTitle(t model.TeamType) string {
	if t == model.TeamMarriage {
		return "Marriage Mass Teams"
	}
	return "Sunday Evening Mass Teams"
}

// TeamReport is the roster sheet of every team of one type: a header row
// per team followed by its members in roster order. Member ids that no
// longer resolve are skipped.
func TeamReport(teams []model.Team, members []model.Member, teamType model.TeamType) Report {
	byID := make(map[string]model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	var ofType []model.Team
	for _, t := range teams {
		if t.Type == teamType {
			ofType = append(ofType, t)
		}
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(ofType, func(i, j int) bool { return col.CompareString(ofType[i].Name, ofType[j].Name) < 0 })

	title := teamsTitle(teamType)
	t := Table{Title: title, Headers: []string{title + " List"}}
	for _, team := range ofType {
		roster := make([]model.Member, 0, len(team.MemberIDs))
		for _, id := range team.MemberIDs {
			if m, ok := byID[id]; ok {
				roster = append(roster, m)
			}
		}
		SortRoster(roster)

		t.Rows = append(t.Rows, []string{fmt.Sprintf("%s (%d Members)", team.Name, len(roster))})
		if len(roster) == 0 {
			t.Rows = append(t.Rows, []string{"- No members in this team -"})
			continue
		}
		for _, m := range roster {
			name := m.Name
			if m.IsOrganist {
				name += " (Organist)"
			}
			t.Rows = append(t.Rows, []string{name})
		}
	}

	return Report{
		Kind:     ReportTeams,
		Title:    title,
		Filename: fileSafe(title) + "_Report",
		Tables:   []Table{t},
	}
}
