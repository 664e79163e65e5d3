package entity

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}
