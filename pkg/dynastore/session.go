package dynastore

import "time"

// Session represents a stored user session. Attributes carries every non-key
// column of the underlying item that is not on the configured exclusion list.
type Session struct {
	ID         string
	UserID     string
	ExpiresAt  time.Time
	Attributes map[string]any
}

// IsExpired reports whether the session's expiry has passed relative to now.
// A session whose expiry has passed is logically absent even if the TTL sweep
// has not physically removed it yet.
func (s *Session) IsExpired(now time.Time) bool {
	return s != nil && s.ExpiresAt.Before(now)
}

// Get retrieves a value from the session's attribute map.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Attributes == nil {
		return nil, false
	}
	val, ok := s.Attributes[key]
	return val, ok
}

// Set stores a value in the session's attribute map.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	s.Attributes[key] = value
}

// User represents a stored user record. The store only ever reads users; user
// writes happen outside this package or through a custom UserLookup.
type User struct {
	ID         string
	Attributes map[string]any
}

// Get retrieves a value from the user's attribute map.
func (u *User) Get(key string) (any, bool) {
	if u == nil || u.Attributes == nil {
		return nil, false
	}
	val, ok := u.Attributes[key]
	return val, ok
}
