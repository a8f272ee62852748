package model

// Category is the kind of gathering an attendance event records.
type Category string

const (
	CategoryDailyMass           Category = "Daily mass"
	CategorySaturdayPractice    Category = "Saturday practice"
	CategorySundayMorningMass   Category = "Sunday morning mass"
	CategorySundayEveningMass   Category = "Sunday evening mass"
	CategorySpecialMassPractice Category = "Special mass practice"
	CategorySpecialMass         Category = "Special mass"
	CategoryMarriageMass        Category = "Marriage mass"
	CategoryChoirMeeting        Category = "Choir meeting"
	CategoryCleaning            Category = "Cleaning"
	CategoryOthers              Category = "Others"
)

// Categories lists every category in the order the attendance form offers them.
var Categories = []Category{
	CategoryDailyMass,
	CategorySaturdayPractice,
	CategorySundayMorningMass,
	CategorySundayEveningMass,
	CategorySpecialMassPractice,
	CategorySpecialMass,
	CategoryMarriageMass,
	CategoryChoirMeeting,
	CategoryCleaning,
	CategoryOthers,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// RequiresName reports whether events of this category must carry an event name.
func (c Category) RequiresName() bool {
	switch c {
	case CategorySpecialMassPractice, CategorySpecialMass, CategoryOthers:
		return true
	}
	return false
}

// Status is the outcome recorded for one member at one event.
type Status string

const (
	StatusPresent           Status = "Present"
	StatusAbsent            Status = "Absent"
	StatusExcused           Status = "Excused"
	StatusExcusedButPresent Status = "Excused but Present"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused, StatusExcusedButPresent:
		return true
	}
	return false
}

// NeedsReason reports whether a record with this status must explain itself.
func (s Status) NeedsReason() bool {
	return s == StatusExcused || s == StatusExcusedButPresent
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "Single"
	MaritalMarried MaritalStatus = "Married"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// TeamType separates the two rotation schedules.
type TeamType string

const (
	TeamSunday   TeamType = "sunday"
	TeamMarriage TeamType = "marriage"
)

func (t TeamType) Valid() bool { return t == TeamSunday || t == TeamMarriage }
