package domain

import "time"

// AdminUser is a back-office account row.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	NameAr       string    `json:"nameAr"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminIdentity is what a session keeps about the signed-in admin.
type AdminIdentity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	NameAr string `json:"nameAr"`
	Role   string `json:"role"`
}

// Identity strips credentials and bookkeeping from the row.
func (u AdminUser) Identity() AdminIdentity {
	return AdminIdentity{
		ID:     u.ID,
		Email:  u.Email,
		NameAr: u.NameAr,
		Role:   u.Role,
	}
}
