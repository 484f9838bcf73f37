package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Location     Location `json:"location"`
	Role         Role     `json:"role"`
	AuthToken    string   `json:"-"`
}

// Identity is the caller of a request: who they are and which zone they
// shop from. It is resolved once per request and passed down explicitly.
type Identity struct {
	UserID   int64
	Username string
	Role     Role
	Location Location
}

func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Location: u.Location,
	}
}

func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }
