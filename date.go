package mdpress

import (
	"time"

	"github.com/avoll/go-mdpress/internal/dateutil"
)

// ResolveDate expands the "auto" date syntax accepted by Input.Date and
// the CLI --date flag:
//   - "auto" resolves to the current date in YYYY-MM-DD format
//   - "auto:FORMAT" applies a token format (e.g. "auto:DD/MM/YYYY")
//   - "auto:preset" applies a named preset (iso, european, us, long)
//   - any other value is returned unchanged (passthrough)
//
// Formats use the tokens YYYY, YY, MMMM, MMM, MM, M, DD and D, with
// [brackets] escaping literal text. The time parameter allows injecting
// a fixed time for testing.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
