package scoring

import (
	"sort"
	"time"

	"choir-attendance/internal/model"
)

// AvailableYears lists the years with events, newest first. The current
// year is always present so an empty history still has something to pick.
func AvailableYears(events []model.AttendanceEvent, now time.Time) []int {
	seen := map[int]bool{now.Year(): true}
	for _, e := range events {
		if d, ok := ParseDate(e.Date); ok {
			seen[d.Year()] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// AvailableMonths lists the months of year that have events, in order.
func AvailableMonths(events []model.AttendanceEvent, year int) []time.Month {
	var seen [13]bool
	for _, e := range events {
		if d, ok := ParseDate(e.Date); ok && d.Year() == year {
			seen[d.Month()] = true
		}
	}
	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if seen[m] {
			months = append(months, m)
		}
	}
	return months
}

type ActivityCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// ActivityCounts counts events per point-bearing category inside w.
func ActivityCounts(events []model.AttendanceEvent, w Window) []ActivityCount {
	idx := map[model.Category]int{}
	out := make([]ActivityCount, 0, len(pointValues))
	for _, c := range ScoredCategories() {
		idx[c] = len(out)
		out = append(out, ActivityCount{Category: c})
	}
	for _, e := range events {
		i, ok := idx[e.Category]
		if !ok {
			continue
		}
		if d, ok := ParseDate(e.Date); ok && w.Contains(d) {
			out[i].Count++
		}
	}
	return out
}

// Celebration is an upcoming birthday or wedding anniversary.
type Celebration struct {
	MemberID string    `json:"member_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Years    int       `json:"years"`
}

const celebrationHorizon = 30

// Celebrations returns birthdays and anniversaries falling within the next
// 30 days of today, soonest first. Anniversaries need a Married member.
func Celebrations(members []model.Member, today time.Time) (birthdays, anniversaries []Celebration) {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := start.AddDate(0, 0, celebrationHorizon)

	for _, m := range members {
		if d, ok := ParseDate(m.DOB); ok {
			if next, ok := upcoming(d, start, end); ok {
				birthdays = append(birthdays, Celebration{MemberID: m.ID, Name: m.Name, Date: next, Years: next.Year() - d.Year()})
			}
		}
		if m.MaritalStatus != model.MaritalMarried {
			continue
		}
		if d, ok := ParseDate(m.WeddingDate); ok {
			if next, ok := upcoming(d, start, end); ok {
				anniversaries = append(anniversaries, Celebration{MemberID: m.ID, Name: m.Name, Date: next, Years: next.Year() - d.Year()})
			}
		}
	}
	byDate := func(c []Celebration) {
		sort.SliceStable(c, func(i, j int) bool { return c[i].Date.Before(c[j].Date) })
	}
	byDate(birthdays)
	byDate(anniversaries)
	return birthdays, anniversaries
}

// upcoming finds the next occurrence of d's day and month in [start, end].
func upcoming(d, start, end time.Time) (time.Time, bool) {
	for _, y := range []int{start.Year(), start.Year() + 1} {
		next := time.Date(y, d.Month(), d.Day(), 0, 0, 0, 0, start.Location())
		if !next.Before(start) && !next.After(end) {
			return next, true
		}
	}
	return time.Time{}, false
}
