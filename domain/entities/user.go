package entities

import "time"

// User holds a player's token balance and accumulated points
type User struct {
	ID        int64     `db:"id"` // Discord user ID
	Username  string    `db:"username"`
	Tokens    int64     `db:"tokens"`
	Points    int64     `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks if the user holds enough tokens for a wager
func (u *User) CanAfford(wager int64) bool {
	return u.Tokens >= wager
}
