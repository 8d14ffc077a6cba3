package auth

import (
	"log"
	"os"

	"github.com/google/uuid"
)

var admin AdminUser

// sessionToken is generated per process; restarting the server
// invalidates all admin sessions.
var sessionToken = uuid.New().String()

const sessionCookieName = "admin_session_token"

// LoadAdminCredentials loads the admin username and password from
// environment variables. It logs a warning if they are not set; the
// admin endpoints reject all logins until both are configured.
func LoadAdminCredentials() {
	admin = AdminUser{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}

	if admin.Username == "" {
		log.Println("WARNING: ADMIN_USERNAME environment variable not set.")
	}
	if admin.Password == "" {
		log.Println("WARNING: ADMIN_PASSWORD environment variable not set.")
	}
}
