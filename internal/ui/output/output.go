// Package output builds termenv outputs with the CLI's color conventions.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ProfileFor selects the color profile for a session. Interactive sessions
// get the terminal's full capabilities; everything else is limited to ANSI so
// CI logs stay readable. Setting NO_COLOR disables color entirely.
func ProfileFor(interactive bool) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if interactive {
		return termenv.EnvColorProfile()
	}
	return termenv.ANSI
}

// New creates a termenv.Output on w with the given profile. A nil writer
// falls back to stderr.
func New(w io.Writer, profile termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
