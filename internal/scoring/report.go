package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"choir-attendance/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type ReportKind string

const (
	ReportYearlyMember  ReportKind = "yearly_member"
	ReportMonthlyMember ReportKind = "monthly_member"
	ReportCohort        ReportKind = "cohort"
	ReportEvent         ReportKind = "event"
)

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Report is what export sinks receive: a filename stem and tables to lay out.
type Report struct {
	Kind     ReportKind `json:"kind"`
	Title    string     `json:"title"`
	Subject  string     `json:"subject,omitempty"`
	Period   string     `json:"period,omitempty"`
	Filename string     `json:"filename"`
	Tables   []Table    `json:"tables"`
}

const (
	notMarked   = "Not Marked"
	placeholder = "-"
)

var spaces = regexp.MustCompile(`\s+`)

func fileSafe(s string) string { return spaces.ReplaceAllString(s, "_") }

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func points(earned, possible float64) string { return fmt.Sprintf("%.1f / %.1f", earned, possible) }

func displayDate(s string) string {
	if d, ok := ParseDate(s); ok {
		return d.Format("02/01/2006")
	}
	return s
}

// MemberReport lays out a yearly or monthly member report, depending on
// the score's window. events is the full history; the event log covers
// every gathering in the window, scored or not.
func MemberReport(member model.Member, score ScoreResult, events []model.AttendanceEvent) Report {
	w := score.Window
	r := Report{Subject: member.Name, Period: w.Label()}
	if w.Monthly() {
		r.Kind = ReportMonthlyMember
		r.Title = "Monthly Attendance Report"
		r.Filename = fmt.Sprintf("Monthly_Report_%s_%d_%d", fileSafe(member.Name), w.Year, int(w.Month))
	} else {
		r.Kind = ReportYearlyMember
		r.Title = fmt.Sprintf("Attendance Report - %d", w.Year)
		r.Filename = fmt.Sprintf("Yearly_Report_%d_%s", w.Year, fileSafe(member.Name))
	}

	r.Tables = append(r.Tables, SummaryTable(score))
	if t := BreakdownTable(score); len(t.Rows) > 0 {
		r.Tables = append(r.Tables, t)
	}
	if t := EventLog(events, member.ID, w); len(t.Rows) > 0 {
		r.Tables = append(r.Tables, t)
	}
	return r
}

func SummaryTable(score ScoreResult) Table {
	title := "Current Year Summary"
	label := fmt.Sprintf("Attendance %% (%d)", score.Window.Year)
	if score.Window.Monthly() {
		title = "Monthly Summary"
		label = "Overall Attendance"
	}
	return Table{
		Title:   title,
		Headers: []string{title, "Value"},
		Rows: [][]string{
			{label, pct(score.Percentage)},
			{"Total Points Earned", points(score.PointsEarned, score.PointsPossible)},
			{"Excused Absences", strconv.Itoa(score.ExcusedCount)},
			{"Excuse Balance", fmt.Sprintf("%d / %d", score.ExcuseBalance, score.ExcuseAllowance)},
			{"Excused but Present", strconv.Itoa(score.ExcusedButPresentCount)},
		},
	}
}

// BreakdownTable lists per-category credit, highest earned first.
func BreakdownTable(score ScoreResult) Table {
	monthly := score.Window.Monthly()
	t := Table{Title: "Gathering Type Breakdown"}
	if monthly {
		t.Headers = []string{"Gathering Type Breakdown", "Count", "Points", "Percentage"}
	} else {
		t.Headers = []string{"Gathering Type Breakdown", "Points", "Percentage (%)"}
	}
	for _, c := range score.Categories() {
		if monthly {
			t.Rows = append(t.Rows, []string{string(c.Category), strconv.Itoa(c.Count), points(c.PointsEarned, c.PointsPossible), pct(c.Percentage())})
		} else {
			t.Rows = append(t.Rows, []string{string(c.Category), points(c.PointsEarned, c.PointsPossible), pct(c.Percentage())})
		}
	}
	return t
}

// EventLog lists every event in w in date order with memberID's mark.
func EventLog(events []model.AttendanceEvent, memberID string, w Window) Table {
	t := Table{
		Title:   "Detailed Event Log",
		Headers: []string{"Date", "Type", "Event Name", "Status", "Reason"},
	}
	for _, ev := range eventsIn(events, w, false, nil) {
		status, reason := notMarked, placeholder
		if rec, ok := ev.record(memberID); ok {
			status = string(rec.Status)
			if rec.Status.NeedsReason() && rec.Reason != "" {
				reason = rec.Reason
			}
		}
		t.Rows = append(t.Rows, []string{
			displayDate(ev.event.Date),
			string(ev.event.Category),
			orPlaceholder(ev.event.EventName),
			status,
			reason,
		})
	}
	return t
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// CohortReport lays out the dashboard: headline figures and ranked lists.
func CohortReport(c CohortResult) Report {
	name := fmt.Sprintf("Dashboard_Report_%d", c.Window.Year)
	if c.Window.Monthly() {
		name = fmt.Sprintf("%s_%d", name, int(c.Window.Month))
	}
	return Report{
		Kind:     ReportCohort,
		Title:    "Choir Attendance Dashboard",
		Period:   c.Window.Label(),
		Filename: name,
		Tables: []Table{
			{
				Title:   "Overview",
				Headers: []string{"Overview", "Value"},
				Rows: [][]string{
					{"Total Members", strconv.Itoa(c.TotalMembers)},
					{"Total Events", strconv.Itoa(c.TotalEvents)},
					{"Average Attendance", pct(c.AveragePercentage)},
					{"Men Attendance", pct(c.MenAveragePercentage)},
					{"Women Attendance", pct(c.WomenAveragePercentage)},
				},
			},
			standingsTable("Top Performers", c.TopPerformers),
			standingsTable("Needs Attention", c.NeedsAttention),
			rankingTable(c.Ranked),
		},
	}
}

func standingsTable(title string, s []Standing) Table {
	t := Table{Title: title, Headers: []string{"Name", "Percentage"}}
	for _, m := range s {
		t.Rows = append(t.Rows, []string{m.Name, pct(m.Percentage)})
	}
	return t
}

func rankingTable(s []Standing) Table {
	t := Table{Title: "All Members", Headers: []string{"Rank", "Name", "Points", "Percentage"}}
	for i, m := range s {
		t.Rows = append(t.Rows, []string{strconv.Itoa(i + 1), m.Name, points(m.PointsEarned, m.PointsPossible), pct(m.Percentage)})
	}
	return t
}

// EventReport is the attendance sheet of a single event, alphabetical by name.
func EventReport(e model.AttendanceEvent) Report {
	records := append([]model.AttendanceRecord(nil), e.Records...)
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		return col.CompareString(records[i].MemberName, records[j].MemberName) < 0
	})

	t := Table{Title: "Attendance", Headers: []string{"Name", "Status", "Reason"}}
	for _, r := range records {
		reason := placeholder
		if r.Status.NeedsReason() && r.Reason != "" {
			reason = r.Reason
		}
		t.Rows = append(t.Rows, []string{orPlaceholder(r.MemberName), string(r.Status), reason})
	}

	period := "on " + displayDate(e.Date)
	if e.EventName != "" {
		period = e.EventName + " " + period
	}
	return Report{
		Kind:     ReportEvent,
		Title:    "Attendance Report: " + string(e.Category),
		Period:   period,
		Filename: fmt.Sprintf("Attendance_%s_%s", fileSafe(string(e.Category)), e.Date),
		Tables:   []Table{t},
	}
}
