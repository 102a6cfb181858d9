package domain

import "time"

// User represents a registered account. PasswordHash holds the encoded
// argon2id hash, never the plaintext.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
