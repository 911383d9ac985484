package constants

// Static route constants
const (
	PublicRoute  = "/"
	UploadsRoute = "/uploads"
	InviteRoute  = "/i"
	// Upload path without leading slash for URL construction
	UploadsPath = "uploads"
)
