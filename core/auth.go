package core

import "time"

// Identity is one wallet address known to the service. The address is the
// natural key and is always stored lowercase.
type Identity struct {
	Address   string     `gorm:"primaryKey" json:"address"`
	Nonce     string     `gorm:"not null" json:"-"`
	Verified  bool       `gorm:"not null;default:false" json:"verified"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"-"`
}

// Session represents an authenticated user session
type Session struct {
	ID            string    // Unique session identifier
	Address       string    // Wallet address of the user
	IssuedAt      time.Time // When the session was created
	AccessExpiry  time.Time // When the access capability expires
	RefreshExpiry time.Time // When the refresh capability expires
	RefreshID     string    // Unique identifier for the refresh token
}
