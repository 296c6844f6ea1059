package terminal

import (
	"os"

	"github.com/muesli/termenv"
)

type Capabilities struct {
	Profile     termenv.Profile
	TermProgram string
}

func (c *Capabilities) SupportsRGB() bool {
	return c.Profile == termenv.TrueColor
}

func DetectCapabilities() *Capabilities {
	caps := &Capabilities{
		Profile:     termenv.EnvColorProfile(),
		TermProgram: os.Getenv("TERM_PROGRAM"),
	}

	// truecolor is opt-in for terminals that under-report it
	switch os.Getenv("LYROVERLAY_TRUECOLOR") {
	case "1", "true", "yes", "on":
		caps.Profile = termenv.TrueColor
	case "0", "false", "no", "off":
		if caps.Profile == termenv.TrueColor {
			caps.Profile = termenv.ANSI256
		}
	}

	return caps
}

func Reset() {
	os.Stdout.WriteString("\033[?25h")
	os.Stdout.WriteString("\033[0m")
	os.Stdout.WriteString("\033[?1049l")
	os.Stdout.WriteString("\033[?1000l")
	os.Stdout.WriteString("\033[?1002l")
	os.Stdout.WriteString("\033[?1003l")
	os.Stdout.WriteString("\033[?1006l")
	os.Stdout.Sync()
}
