package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID      string    `json:"userid" bson:"userid"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Password    string    `json:"-" bson:"password"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role        string    `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin   time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	ResetToken  string    `json:"-" bson:"reset_token,omitempty"`
	ResetExpiry time.Time `json:"-" bson:"reset_expiry,omitempty"`
	// hashed; rotated on login
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// PublicUser is the profile shape returned to clients.
type PublicUser struct {
	UserID    string    `json:"userid" bson:"userid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
