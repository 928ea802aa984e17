package models

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// CanAdministrate is the single capability check for the admin surface.
func (r Role) CanAdministrate() bool {
	return r == RoleAdmin
}

// Actor is the request-scoped identity passed into every cart and order
// operation. Handlers build it from the JWT claims; nothing reads ambient
// session state.
type Actor struct {
	UserID uint
	Role   Role
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	Cart         Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) AsActor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}
