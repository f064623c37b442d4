package customers

var provinces = []string{
	"Alberta",
	"British Columbia",
	"Manitoba",
	"New Brunswick",
	"Newfoundland and Labrador",
	"Nova Scotia",
	"Ontario",
	"Prince Edward Island",
	"Quebec",
	"Saskatchewan",
}

// Provinces returns the accepted province names in alphabetical order.
func Provinces() []string {
	out := make([]string, len(provinces))
	copy(out, provinces)
	return out
}

// IsProvince reports whether name is an accepted province.
func IsProvince(name string) bool {
	for _, p := range provinces {
		if p == name {
			return true
		}
	}
	return false
}
