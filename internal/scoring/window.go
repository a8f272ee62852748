package scoring

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Window is a calendar year, or one month of it when Month is set. On the
// wire the month is zero-based (0 is January), like the ?month= query, and
// absent for a whole year.
type Window struct {
	Year  int
	Month time.Month
}

type windowJSON struct {
	Year  int  `json:"year"`
	Month *int `json:"month,omitempty"`
}

func (w Window) MarshalJSON() ([]byte, error) {
	out := windowJSON{Year: w.Year}
	if w.Monthly() {
		m := int(w.Month) - 1
		out.Month = &m
	}
	return json.Marshal(out)
}

func (w *Window) UnmarshalJSON(data []byte) error {
	var in windowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*w = Window{Year: in.Year}
	if in.Month != nil {
		if *in.Month < 0 || *in.Month > 11 {
			return fmt.Errorf("window month %d out of range 0..11", *in.Month)
		}
		w.Month = time.Month(*in.Month + 1)
	}
	return nil
}

func YearWindow(year int) Window { return Window{Year: year} }

func MonthWindow(year int, month time.Month) Window { return Window{Year: year, Month: month} }

// Monthly reports whether the window covers a single month.
func (w Window) Monthly() bool { return w.Month >= time.January && w.Month <= time.December }

func (w Window) Contains(d time.Time) bool {
	if d.Year() != w.Year {
		return false
	}
	return !w.Monthly() || d.Month() == w.Month
}

func (w Window) String() string {
	if w.Monthly() {
		return fmt.Sprintf("%04d-%02d", w.Year, int(w.Month))
	}
	return fmt.Sprintf("%04d", w.Year)
}

// Label is the human form used in report titles: "Year 2026" or "January 2026".
func (w Window) Label() string {
	if w.Monthly() {
		return fmt.Sprintf("%s %d", w.Month, w.Year)
	}
	return fmt.Sprintf("Year %d", w.Year)
}

// ParseDate parses a stored YYYY-MM-DD event date.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func monthKey(d time.Time) string { return d.Format("2006-01") }
