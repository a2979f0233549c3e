package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// promptLine prints a prompt to w and reads one line from reader, trimming
// the trailing newline. A partial line before EOF is still returned.
//
// Prompt format:
//
//	Prompt text
//	> _
func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptChoice keeps prompting until the answer is one of the allowed
// values; an empty answer picks the first one.
func promptChoice(reader *bufio.Reader, prompt string, w io.Writer, allowed ...string) (string, error) {
	full := fmt.Sprintf("%s (%s)", prompt, strings.Join(allowed, "/"))
	for {
		answer, err := promptLine(reader, full, w)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return allowed[0], nil
		}
		for _, a := range allowed {
			if answer == a {
				return a, nil
			}
		}
		fmt.Fprintln(w, "Please pick one of:", strings.Join(allowed, ", "))
	}
}
