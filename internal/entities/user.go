package entities

import (
	"time"
)

const (
	UserRoleUser     = "user"
	UserRoleDesigner = "designer"
	UserRoleAdmin    = "admin"
)

// XPPerLevel is the amount of XP needed to advance one level.
const XPPerLevel = 100

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Password  string    `db:"password"`
	Role      string    `db:"role"`
	XP        int       `db:"xp"`
	Level     int       `db:"level"`
	CreatedAt time.Time `db:"created_at"`
}
