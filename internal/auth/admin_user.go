package auth

// AdminUser holds the credentials for the single admin account. Loaded
// from environment variables at startup.
type AdminUser struct {
	Username string
	Password string
}

// Configured reports whether both credential fields were provided.
func (u AdminUser) Configured() bool {
	return u.Username != "" && u.Password != ""
}

// Matches checks a submitted username/password pair.
func (u AdminUser) Matches(username, password string) bool {
	return u.Configured() && username == u.Username && password == u.Password
}
