package domain

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Username  string `db:"username" json:"username"`
	Hash      string `db:"password_hash" json:"-"`
	IsAdmin   bool   `db:"is_admin" json:"is_admin"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
