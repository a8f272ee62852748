package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID                       string        `gorm:"primaryKey;size:36" json:"id"`
	Name                     string        `gorm:"size:128;not null;index" json:"name"`
	Gender                   Gender        `gorm:"size:16" json:"gender"`
	DOB                      string        `gorm:"size:10" json:"dob,omitempty"` // YYYY-MM-DD
	MaritalStatus            MaritalStatus `gorm:"size:16" json:"marital_status,omitempty"`
	WeddingDate              string        `gorm:"size:10" json:"wedding_date,omitempty"`
	Phone                    string        `gorm:"size:32" json:"phone"`
	Email                    string        `gorm:"size:128" json:"email,omitempty"`
	Anbiyam                  string        `gorm:"size:128" json:"anbiyam,omitempty"`
	Address                  string        `gorm:"type:text" json:"address,omitempty"`
	IsOrganist               bool          `json:"is_organist"`
	IsSoundEngineer          bool          `json:"is_sound_engineer"`
	IsPresentationSpecialist bool          `json:"is_presentation_specialist"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}

// Account is a login identity. Admin accounts carry no member.
type Account struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:128;uniqueIndex" json:"username"`
	Password  string    `json:"-"`
	Name      string    `gorm:"size:128" json:"name"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	MemberID  *string   `gorm:"size:36;index" json:"member_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AttendanceEvent struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	Date      string             `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Category  Category           `gorm:"size:32;not null;index" json:"category"`
	EventName string             `gorm:"size:255" json:"event_name,omitempty"`
	Records   []AttendanceRecord `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"records"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AttendanceRecord is one marked member. MemberName is a snapshot taken at write time.
type AttendanceRecord struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	EventID    string `gorm:"size:36;not null;index" json:"-"`
	Position   int    `json:"-"`
	MemberID   string `gorm:"size:36;not null;index" json:"member_id"`
	MemberName string `gorm:"size:128" json:"member_name"`
	Status     Status `gorm:"size:32;not null" json:"status"`
	Reason     string `gorm:"type:text" json:"reason,omitempty"`
}

type Team struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Type      TeamType  `gorm:"size:16;not null;index" json:"type"`
	MemberIDs []string  `gorm:"serializer:json" json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Member) BeforeCreate(*gorm.DB) error          { m.ID = ensureID(m.ID); return nil }
func (a *Account) BeforeCreate(*gorm.DB) error         { a.ID = ensureID(a.ID); return nil }
func (e *AttendanceEvent) BeforeCreate(*gorm.DB) error { e.ID = ensureID(e.ID); return nil }
func (t *Team) BeforeCreate(*gorm.DB) error            { t.ID = ensureID(t.ID); return nil }

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// Record returns the record for memberID, if the member was marked.
func (e *AttendanceEvent) Record(memberID string) (AttendanceRecord, bool) {
	for _, r := range e.Records {
		if r.MemberID == memberID {
			return r, true
		}
	}
	return AttendanceRecord{}, false
}

func (Member) TableName() string           { return "members" }
func (Account) TableName() string          { return "accounts" }
func (AttendanceEvent) TableName() string  { return "attendance_events" }
func (AttendanceRecord) TableName() string { return "attendance_records" }
func (Team) TableName() string             { return "teams" }

// AllModels is the migration set.
func AllModels() []any {
	return []any{&Member{}, &Account{}, &AttendanceEvent{}, &AttendanceRecord{}, &Team{}}
}
