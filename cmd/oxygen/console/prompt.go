package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// Confirm asks a yes/no question defaulting to no.
func Confirm(question string) (bool, error) {
	answer, err := Prompt(question, No, Yes)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

// Prompt reads one line. With constraints the first one is the default and
// any answer outside of them falls back to it.
func Prompt(question string, constraints ...string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(question)
	if len(constraints) > 0 {
		prompt.WriteString(" [")
		prompt.WriteString(strings.ToUpper(constraints[0]))
		for _, c := range constraints[1:] {
			prompt.WriteString("/")
			prompt.WriteString(c)
		}
		prompt.WriteString("]")
	}
	prompt.WriteString(": ")
	rl, err := readline.New(prompt.String())
	if err != nil {
		return "", err
	}
	defer rl.Close()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return normalize(response, constraints), nil
}

func normalize(response string, constraints []string) string {
	if len(constraints) == 0 {
		return response
	}
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if normalized == c {
			return normalized
		}
	}
	return constraints[0]
}
