package models

// Credential is the single stored user record. The password is kept in
// plain text: this is a local-only credential check, not real
// authentication, and hashing is out of scope.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
