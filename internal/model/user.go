package model

// User is a row of the `users` table.  Users only exist so that likes,
// recommendations and feeds can resolve an id; there are no credentials.
//
// Fields:
//
//	ID       – users.id
//	Email    – users.email, unique.
//	Login    – users.login, unique, no whitespace.
//	Name     – users.name; defaults to Login when blank.
//	Birthday – users.birthday (nullable), "YYYY-MM-DD" on the wire.
type User struct {
	ID       uint64 `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	Login    string `json:"login" db:"login"`
	Name     string `json:"name" db:"name"`
	Birthday *Date  `json:"birthday,omitempty" db:"birthday"`
}
