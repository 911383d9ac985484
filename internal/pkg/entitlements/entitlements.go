package entitlements

// Feature gates between the free tier and the paid premium upgrade.

const (
	FreeMaxInvitations    = 1
	PremiumMaxInvitations = 10

	FreeMaxGalleryPhotos    = 10
	PremiumMaxGalleryPhotos = 50
)

var premiumThemes = map[string]bool{
	"noir":      true,
	"hanbok":    true,
	"botanical": true,
}

// MaxInvitations returns how many invitations a user may own.
func MaxInvitations(isPremium bool) int {
	if isPremium {
		return PremiumMaxInvitations
	}
	return FreeMaxInvitations
}

// MaxGalleryPhotos returns the per-invitation gallery cap.
func MaxGalleryPhotos(isPremium bool) int {
	if isPremium {
		return PremiumMaxGalleryPhotos
	}
	return FreeMaxGalleryPhotos
}

// CanUseTheme reports whether the theme is available on the user's tier.
// Unknown themes fall back to the free tier set.
func CanUseTheme(isPremium bool, theme string) bool {
	if premiumThemes[theme] {
		return isPremium
	}
	return true
}

// WatermarkRemoved reports whether invitation pages render without the
// service watermark.
func WatermarkRemoved(isPremium bool) bool {
	return isPremium
}
