package users

import "time"

// User is one registered account. PasswordHash is a bcrypt hash; the
// plaintext password never leaves the service boundary and is never logged.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
