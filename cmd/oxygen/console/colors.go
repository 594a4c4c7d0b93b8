package console

import "github.com/fatih/color"

var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Status renders v green when ok and red otherwise.
func Status(ok bool, v interface{}) string {
	if ok {
		return Green(v)
	}
	return Red(v)
}
