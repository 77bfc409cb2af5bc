package domain

import "strings"

// Buyer is the identity of the authenticated user, if any. The zero value is an
// anonymous buyer.
type Buyer struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Contact   string `json:"contact"`
}

func (b Buyer) Anonymous() bool {
	return strings.TrimSpace(b.UserID) == ""
}

// FullName joins first and last name, empty for anonymous buyers.
func (b Buyer) FullName() string {
	if b.Anonymous() {
		return ""
	}
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}
