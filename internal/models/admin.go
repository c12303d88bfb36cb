package models

// Admin is a back-office account. Password holds a bcrypt hash.
type Admin struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
}
