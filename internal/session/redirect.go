package session

import "strings"

const (
	AdminPrefix   = "/admin"
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// Redirect decides where a navigation to path should go instead. ok is false
// when the navigation may proceed.
func Redirect(path string, authenticated bool) (string, bool) {
	path = strings.TrimRight(path, "/")
	if path == LoginPath {
		if authenticated {
			return DashboardPath, true
		}
		return "", false
	}
	if path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/") {
		if !authenticated {
			return LoginPath, true
		}
	}
	return "", false
}
