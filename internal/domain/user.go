package domain

import "sealedchat/internal/jwk"

// User is a directory entry: display identity plus published public key
// records. Published keys are immutable for the lifetime of the identity.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`

	SigningKey   *jwk.Record `json:"signingKey,omitempty"`
	AgreementKey *jwk.Record `json:"agreementKey,omitempty"`
}

// UserSummary is the id+username projection used for user listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Credentials is what a successful login yields.
type Credentials struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
