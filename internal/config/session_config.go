package config

type SessionConfig interface {
	GetSessionStorageKey() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionStorageKey is the key the current session token is persisted
// under in the key-value collaborator.
func (Session) GetSessionStorageKey() string {
	return "storeauth:session"
}
