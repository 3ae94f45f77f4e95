// Package model defines domain constants and types shared across the application.
package model

// Language text directions. The catalog stores the writing direction as the
// side text flows from, so "left" is what most UIs call LTR.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// ValidDirection reports whether d is a known text direction.
func ValidDirection(d string) bool {
	return d == DirectionLeft || d == DirectionRight
}

// CommonLanguages provides a list of commonly used languages for seeding and
// admin tooling.
var CommonLanguages = []struct {
	Code      string
	Name      string
	Direction string
}{
	{"en", "English", DirectionLeft},
	{"es", "Spanish", DirectionLeft},
	{"fr", "French", DirectionLeft},
	{"de", "German", DirectionLeft},
	{"pt", "Portuguese", DirectionLeft},
	{"it", "Italian", DirectionLeft},
	{"nl", "Dutch", DirectionLeft},
	{"pl", "Polish", DirectionLeft},
	{"uk", "Ukrainian", DirectionLeft},
	{"zh", "Chinese", DirectionLeft},
	{"ja", "Japanese", DirectionLeft},
	{"ko", "Korean", DirectionLeft},
	{"ar", "Arabic", DirectionRight},
	{"he", "Hebrew", DirectionRight},
	{"fa", "Persian", DirectionRight},
	{"tr", "Turkish", DirectionLeft},
	{"hi", "Hindi", DirectionLeft},
}
