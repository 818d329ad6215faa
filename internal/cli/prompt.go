package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/stemdiff/pkg/models"
)

// prompter reads line-oriented answers from the user
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer.
// io.EOF is returned only when the input ended before any answer was typed.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// directory returns arg, or prompts for a directory path when arg is empty
func (p *prompter) directory(arg, question string) (string, error) {
	if arg != "" {
		return arg, nil
	}

	answer, err := p.ask(question)
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("no directory given")
	}
	if err != nil {
		return "", fmt.Errorf("failed to read directory path: %w", err)
	}
	return answer, nil
}

// deletionChoice asks which side's unique files should be deleted
func (p *prompter) deletionChoice(result *models.ComparisonResult) (models.DeleteChoice, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "What would you like to do?")
	fmt.Fprintf(p.out, "  1) Delete the %d files found only in %s\n", len(result.OnlyA), result.RootA)
	fmt.Fprintf(p.out, "  2) Delete the %d files found only in %s\n", len(result.OnlyB), result.RootB)
	fmt.Fprintln(p.out, "  Any other answer leaves both directories untouched")

	answer, err := p.ask("Choice:")
	if errors.Is(err, io.EOF) {
		return models.DeleteNone, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read choice: %w", err)
	}
	return parseChoice(answer), nil
}

// parseChoice maps an interactive answer to a deletion choice
func parseChoice(answer string) models.DeleteChoice {
	switch strings.TrimSpace(answer) {
	case "1":
		return models.DeleteOnlyA
	case "2":
		return models.DeleteOnlyB
	default:
		return models.DeleteNone
	}
}
