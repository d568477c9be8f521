package models

// User represents a registered author account.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email    string `json:"email" gorm:"index;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required"` // bcrypt hash, never serialized
}

// PublicProfile is the projection of a User that is safe to return to clients.
type PublicProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{Name: u.Name, Email: u.Email}
}
