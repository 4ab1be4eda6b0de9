// internal/model/user.go
package model

type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"passwordHash"`
}

// SessionUser is the password-free view of a user kept in a session.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Session struct {
	User          *SessionUser `json:"user"`
	Authenticated bool         `json:"isAuthenticated"`
}

func (s Session) IsLoggedIn() bool {
	return s.Authenticated && s.User != nil
}
