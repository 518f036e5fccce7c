package contracts

// Position is the pitch role a player registers with
type Position string

const (
	PositionAttacker   Position = "attacker"
	PositionMidfielder Position = "midfielder"
	PositionDefender   Position = "defender"
	PositionGoalkeeper Position = "goalkeeper"
)

// Positions lists every valid position in bucket order
var Positions = []Position{PositionAttacker, PositionMidfielder, PositionDefender, PositionGoalkeeper}

// Valid reports whether p is one of the four known positions
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Status is the availability flag players toggle before a match
type Status string

const (
	StatusReady    Status = "Ready"
	StatusNotReady Status = "Not Ready"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusReady || s == StatusNotReady
}

// Role controls access to admin operations
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

// Foot is the preferred kicking foot
type Foot string

const (
	FootRight Foot = "Right"
	FootLeft  Foot = "Left"
	FootBoth  Foot = "Both"
)

// Valid reports whether f is a known foot
func (f Foot) Valid() bool {
	return f == FootRight || f == FootLeft || f == FootBoth
}

// User is an account as persisted in the store
// ⭐ SSOT: 저장소 레코드 형식
type User struct {
	ID            int      `json:"id"`
	Username      string   `json:"username"`
	PasswordHash  string   `json:"password"`
	Player        string   `json:"player"` // display name
	Height        float64  `json:"height"` // meters
	Matches       int      `json:"matches"`
	Goals         int      `json:"goals"`
	MinPlayed     int      `json:"minPlayed"`
	Position      Position `json:"position"`
	PreferredFoot Foot     `json:"preferredFoot"`
	ProfilePicURL *string  `json:"profilePicUrl"`
	Status        Status   `json:"status"`
	Role          Role     `json:"role"`
}

// IsAdmin reports whether the user may manage other accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Player is the public view of a user. The password hash never leaves the server.
type Player struct {
	ID            int      `json:"id"`
	Username      string   `json:"username"`
	Player        string   `json:"player"`
	Height        float64  `json:"height"`
	Matches       int      `json:"matches"`
	Goals         int      `json:"goals"`
	MinPlayed     int      `json:"minPlayed"`
	Position      Position `json:"position"`
	PreferredFoot Foot     `json:"preferredFoot"`
	ProfilePicURL *string  `json:"profilePicUrl"`
	Status        Status   `json:"status"`
	Role          Role     `json:"role"`
	AvgRating     float64  `json:"avgRating"`
}

// PlayerOf projects a stored user onto its public view
func PlayerOf(u User, avgRating float64) Player {
	return Player{
		ID:            u.ID,
		Username:      u.Username,
		Player:        u.Player,
		Height:        u.Height,
		Matches:       u.Matches,
		Goals:         u.Goals,
		MinPlayed:     u.MinPlayed,
		Position:      u.Position,
		PreferredFoot: u.PreferredFoot,
		ProfilePicURL: u.ProfilePicURL,
		Status:        u.Status,
		Role:          u.Role,
		AvgRating:     avgRating,
	}
}

// IsReady reports whether the player is available for team generation
func (p *Player) IsReady() bool {
	return p.Status == StatusReady
}

// ProfileUpdate carries optional profile changes. Nil fields are left untouched.
type ProfileUpdate struct {
	Player        *string
	Height        *float64
	Position      *Position
	PreferredFoot *Foot
	ProfilePicURL *string
	Status        *Status
	Role          *Role
	Matches       *int
	Goals         *int
	MinPlayed     *int
	PasswordHash  *string
}

// Apply copies every set field onto u
func (p ProfileUpdate) Apply(u *User) {
	if p.Player != nil {
		u.Player = *p.Player
	}
	if p.Height != nil {
		u.Height = *p.Height
	}
	if p.Position != nil {
		u.Position = *p.Position
	}
	if p.PreferredFoot != nil {
		u.PreferredFoot = *p.PreferredFoot
	}
	if p.ProfilePicURL != nil {
		if *p.ProfilePicURL == "" {
			u.ProfilePicURL = nil
		} else {
			pic := *p.ProfilePicURL
			u.ProfilePicURL = &pic
		}
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Matches != nil {
		u.Matches = *p.Matches
	}
	if p.Goals != nil {
		u.Goals = *p.Goals
	}
	if p.MinPlayed != nil {
		u.MinPlayed = *p.MinPlayed
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
