package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Role     Role    `json:"role"`
	MemberID string  `json:"member_id,omitempty"`
	Member   *Member `json:"member,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// EventRequest is the body of event create and update calls.
type EventRequest struct {
	Date      string             `json:"date"`
	Category  Category           `json:"category"`
	EventName string             `json:"event_name"`
	Records   []AttendanceRecord `json:"records"`
}

func (r EventRequest) Event() AttendanceEvent {
	return AttendanceEvent{Date: r.Date, Category: r.Category, EventName: r.EventName, Records: r.Records}
}

type BulkMarkRequest struct {
	Mode    string             `json:"mode" binding:"required"`
	Records []AttendanceRecord `json:"records"`
}

type TeamRequest struct {
	Name    string   `json:"name"`
	Type    TeamType `json:"type"`
	Members []string `json:"members"`
}

type ImportConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}
