package domain

// Role is the hero role a practice code targets.
type Role string

const (
	RoleAny     Role = "Any"
	RoleTank    Role = "Tank"
	RoleDPS     Role = "DPS"
	RoleSupport Role = "Support"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAny, RoleTank, RoleDPS, RoleSupport}

func (r Role) Valid() bool {
	switch r {
	case RoleAny, RoleTank, RoleDPS, RoleSupport:
		return true
	}
	return false
}

// Mode is the practice category of a code.
type Mode string

const (
	ModeAim      Mode = "Aim"
	ModeMovement Mode = "Movement"
	ModeScrim    Mode = "Scrim"
	ModeFun      Mode = "Fun"
	ModeVOD      Mode = "VOD"
	ModeOther    Mode = "Other"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeAim, ModeMovement, ModeScrim, ModeFun, ModeVOD, ModeOther}

func (m Mode) Valid() bool {
	switch m {
	case ModeAim, ModeMovement, ModeScrim, ModeFun, ModeVOD, ModeOther:
		return true
	}
	return false
}

// Code is one shareable practice code entry.
type Code struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"desc"`
	Heroes      []string `json:"heroes"`
	Maps        []string `json:"maps"`
	Tags        []string `json:"tags"`
	Role        Role     `json:"role"`
	Mode        Mode     `json:"mode"`
	Author      string   `json:"author"`
	// Updated is a calendar date in ISO 8601 day precision. The string
	// form sorts chronologically, which the engine relies on.
	Updated string  `json:"updated"`
	OwnerID *string `json:"ownerId,omitempty"`
}

// Profile is an optional per-user display name.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// User is an authenticated account, keyed by e-mail.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Engagement carries per-client copy counts and the like source for
// ranking. In backend mode LikeCounts holds remote aggregates; in
// local-only mode Liked holds this device's toggles and counts as 0/1.
type Engagement struct {
	CopyCounts map[string]int
	LikeCounts map[string]int
	Liked      map[string]bool
	Remote     bool
}

// Copies returns the copy count for a record, missing = 0.
func (e Engagement) Copies(id string) int {
	return e.CopyCounts[id]
}

// Likes returns the like count for a record under the active mode.
func (e Engagement) Likes(id string) int {
	if e.Remote {
		return e.LikeCounts[id]
	}
	if e.Liked[id] {
		return 1
	}
	return 0
}
