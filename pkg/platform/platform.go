// Package platform classifies the embedding client as desktop or mobile.
//
// Classification happens once when a widget session is created and is never
// revisited for the lifetime of the session; a viewport crossing a breakpoint
// after mount does not change the outcome.
package platform

import "strings"

// Kind is the platform bucket a client falls into.
type Kind int

const (
	Desktop Kind = iota
	Mobile
)

func (k Kind) String() string {
	switch k {
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// IsDesktop reports whether the kind is Desktop.
func (k Kind) IsDesktop() bool { return k == Desktop }

// markers that indicate a mobile client. Order does not matter; the first
// hit wins.
var mobileMarkers = []string{
	"mobi",
	"android",
	"iphone",
	"ipad",
	"ipod",
	"windows phone",
	"opera mini",
	"blackberry",
}

// Classify buckets a user agent string into Desktop or Mobile. Unknown or
// empty user agents classify as Desktop.
func Classify(userAgent string) Kind {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return Mobile
		}
	}
	return Desktop
}
