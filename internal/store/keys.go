package store

// Keys used in the durable store. The account directory, the session and
// both UI preferences are single global keys; catalogs get one key per
// username.
const (
	DirectoryKey = "gallery_users"
	SessionKey   = "session_user"
	ViewModeKey  = "view_mode"
	ThemeKey     = "theme"
)

// CatalogKeyFor maps a username to the key its media catalog is persisted
// under.
func CatalogKeyFor(username string) string {
	return "media_" + username
}
