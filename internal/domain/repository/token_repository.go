package repository

// TokenRepository is the durable slot holding the one persisted value of
// the application: the bearer token. Load returns "" when no token is
// held.
type TokenRepository interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}
