package util

// MaskPlaceholder replaces the second character of a masked name.
const MaskPlaceholder = "O"

// MaskName redacts a display name for public listings.
// "王" -> "王", "王小" -> "王O", "王小明" -> "王O明"
func MaskName(name string) string {
	runes := []rune(name)
	switch {
	case len(runes) <= 1:
		return name
	case len(runes) == 2:
		return string(runes[0]) + MaskPlaceholder
	default:
		return string(runes[0]) + MaskPlaceholder + string(runes[2:])
	}
}
