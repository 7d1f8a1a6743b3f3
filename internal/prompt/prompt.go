// Package prompt implements the interactive question flow on a plain
// reader/writer pair, so the full prompt sequence is testable without a TTY.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks questions on w and reads answers from r.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// Choice is a single entry in a multi-select menu.
type Choice struct {
	Key         string
	Description string
	Checked     bool
}

// New returns a Prompter reading from r and writing to w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Text asks for a free-form value. An empty answer yields def. If validate is
// non-nil, invalid answers are reported and the question is asked again until
// the input is valid or the reader is exhausted.
func (p *Prompter) Text(label, def string, validate func(string) error) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.w, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.w, "%s: ", label)
		}

		line, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("reading answer for %q: %w", label, err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}

		if validate != nil {
			if err := validate(answer); err != nil {
				fmt.Fprintf(p.w, "  %v\n", err)
				continue
			}
		}
		return answer, nil
	}
}

// Select presents a numbered list and returns the chosen item. An empty
// answer yields def when def is one of the options.
func (p *Prompter) Select(label string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", label)
	}

	fmt.Fprintf(p.w, "\n%s\n", label)
	defIdx := -1
	for i, opt := range options {
		marker := " "
		if opt == def {
			marker = "*"
			defIdx = i
		}
		fmt.Fprintf(p.w, " %s%d) %s\n", marker, i+1, opt)
	}

	for {
		fmt.Fprintf(p.w, "Enter number [1-%d]: ", len(options))

		line, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("reading selection for %q: %w", label, err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" && defIdx >= 0 {
			return options[defIdx], nil
		}

		num, convErr := strconv.Atoi(answer)
		if convErr != nil || num < 1 || num > len(options) {
			fmt.Fprintf(p.w, "  invalid selection %q: choose 1-%d\n", answer, len(options))
			continue
		}
		return options[num-1], nil
	}
}

// MultiSelect presents a numbered checklist and returns the chosen keys.
// Answers are comma-separated numbers ("1,3"). An empty answer keeps the
// pre-checked defaults; "none" clears the selection.
func (p *Prompter) MultiSelect(label string, choices []Choice) ([]string, error) {
	fmt.Fprintf(p.w, "\n%s\n", label)
	for i, c := range choices {
		mark := " "
		if c.Checked {
			mark = "x"
		}
		fmt.Fprintf(p.w, " [%s] %d) %s", mark, i+1, c.Key)
		if c.Description != "" {
			fmt.Fprintf(p.w, " - %s", c.Description)
		}
		fmt.Fprintln(p.w)
	}

	for {
		fmt.Fprintf(p.w, "Enter numbers separated by commas (empty keeps defaults, \"none\" clears): ")

		line, err := p.readLine()
		if err != nil {
			return nil, fmt.Errorf("reading selection for %q: %w", label, err)
		}

		answer := strings.TrimSpace(line)
		switch answer {
		case "":
			var keys []string
			for _, c := range choices {
				if c.Checked {
					keys = append(keys, c.Key)
				}
			}
			return keys, nil
		case "none":
			return nil, nil
		}

		keys, ok := p.parseMulti(answer, choices)
		if !ok {
			continue
		}
		return keys, nil
	}
}

// parseMulti converts "1,3" into choice keys, reporting the first bad token.
func (p *Prompter) parseMulti(answer string, choices []Choice) ([]string, bool) {
	seen := make(map[int]bool)
	var keys []string
	for _, tok := range strings.Split(answer, ",") {
		tok = strings.TrimSpace(tok)
		num, err := strconv.Atoi(tok)
		if err != nil || num < 1 || num > len(choices) {
			fmt.Fprintf(p.w, "  invalid selection %q: choose numbers 1-%d\n", tok, len(choices))
			return nil, false
		}
		if seen[num] {
			continue
		}
		seen[num] = true
		keys = append(keys, choices[num-1].Key)
	}
	return keys, true
}

// readLine reads up to a newline, tolerating a final unterminated line.
func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}
