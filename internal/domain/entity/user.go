package entity

// User is the profile returned by the Interview Service on login or
// registration. The client treats it as read-only.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials carries one login attempt. Transient: built per submission
// and discarded once the request resolves.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration carries one sign-up attempt.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthGrant is the result of a successful login or registration.
type AuthGrant struct {
	Token string
	User  User
}
