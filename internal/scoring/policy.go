package scoring

import "choir-attendance/internal/model"

var pointValues = map[model.Category]float64{
	model.CategorySpecialMassPractice: 40,
	model.CategorySpecialMass:         50,
	model.CategorySundayMorningMass:   30,
	model.CategorySundayEveningMass:   30,
	model.CategorySaturdayPractice:    25,
	model.CategoryMarriageMass:        40,
	model.CategoryChoirMeeting:        15,
	model.CategoryCleaning:            10,
	model.CategoryOthers:              10,
}

var multipliers = map[model.Status]float64{
	model.StatusPresent:           1.0,
	model.StatusAbsent:            0.0,
	model.StatusExcusedButPresent: 0.4,
	model.StatusExcused:           0.2,
}

// PointValue is the credit an event of category c is worth. Daily mass and
// unknown categories are worth nothing.
func PointValue(c model.Category) float64 { return pointValues[c] }

// Multiplier is the share of an event's credit a status earns. Unknown
// statuses earn nothing.
func Multiplier(s model.Status) float64 { return multipliers[s] }

// Scored reports whether events of category c take part in scoring.
func Scored(c model.Category) bool { return PointValue(c) > 0 }

// ScoredCategories returns the point-bearing categories in form order.
func ScoredCategories() []model.Category {
	out := make([]model.Category, 0, len(pointValues))
	for _, c := range model.Categories {
		if Scored(c) {
			out = append(out, c)
		}
	}
	return out
}

// Policy holds the business constants that deployments may tune.
type Policy struct {
	MonthlyExcuseCap      int     `yaml:"monthly_excuse_cap"`
	YearlyExcuseAllowance int     `yaml:"yearly_excuse_allowance"`
	TopThreshold          float64 `yaml:"top_threshold"`
	AttentionThreshold    float64 `yaml:"attention_threshold"`
	ListCap               int     `yaml:"list_cap"`
	ReminderHour          int     `yaml:"reminder_hour"`
}

func DefaultPolicy() Policy {
	return Policy{
		MonthlyExcuseCap:      2,
		YearlyExcuseAllowance: 24,
		TopThreshold:          90,
		AttentionThreshold:    70,
		ListCap:               10,
		ReminderHour:          21,
	}
}

// normalized fills unset fields with the defaults.
func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.MonthlyExcuseCap <= 0 {
		p.MonthlyExcuseCap = d.MonthlyExcuseCap
	}
	if p.YearlyExcuseAllowance <= 0 {
		p.YearlyExcuseAllowance = d.YearlyExcuseAllowance
	}
	if p.TopThreshold <= 0 {
		p.TopThreshold = d.TopThreshold
	}
	if p.AttentionThreshold <= 0 {
		p.AttentionThreshold = d.AttentionThreshold
	}
	if p.ListCap <= 0 {
		p.ListCap = d.ListCap
	}
	if p.ReminderHour <= 0 || p.ReminderHour > 23 {
		p.ReminderHour = d.ReminderHour
	}
	return p
}
