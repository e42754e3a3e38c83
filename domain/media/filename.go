package media

import (
	"fmt"
	"strings"
	"time"
)

// PhotoFilename names a still capture after its local wall-clock time.
// Components are not zero padded, so 2024-03-05 14:07:09 becomes
// ar-screenshot-2024-3-5_14-7-9.png.
func PhotoFilename(t time.Time) string {
	return fmt.Sprintf("ar-screenshot-%d-%d-%d_%d-%d-%d.png",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// VideoFilename names a recording after its epoch milliseconds with an
// extension derived from the negotiated container type.
func VideoFilename(t time.Time, mime string) string {
	return fmt.Sprintf("ar-video-%d.%s", t.UnixMilli(), ExtensionForMIME(mime))
}

// ExtensionForMIME maps any webm-family type to "webm"; everything else is
// stored as "mp4".
func ExtensionForMIME(mime string) string {
	if strings.Contains(strings.ToLower(mime), "webm") {
		return "webm"
	}
	return "mp4"
}
