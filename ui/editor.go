package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/pkg/validation"
	"github.com/rs/zerolog/log"
)

// maxTitleAttempts bounds how often an invalid title is asked for again before giving up.
const maxTitleAttempts = 3

// PromptEditor asks for an entry's fields one line at a time.
// On edit an empty answer keeps the current value; on create an empty title cancels.
type PromptEditor struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewPromptEditor creates an editor reading from in and prompting on out.
func NewPromptEditor(in *bufio.Reader, out io.Writer) *PromptEditor {
	return &PromptEditor{In: in, Out: out}
}

// Open implements selection.Editor. End of input cancels.
func (p *PromptEditor) Open(ctx context.Context, existing *catalog.Entry) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result catalog.Entry
	if existing != nil {
		result = *existing
		fmt.Fprintf(p.Out, "Editing entry %s (leave a field empty to keep it)\n", existing.ID)
	} else {
		fmt.Fprintln(p.Out, "New entry (leave the title empty to cancel)")
	}

	title, ok, err := p.askTitle(ctx, result.Title, existing != nil)
	if err != nil || !ok {
		return nil, err
	}
	result.Title = title

	description, eof, err := p.ask(ctx, fmt.Sprintf("Description [%s]: ", result.Description))
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, nil
	}
	if description != "" {
		if err := validation.ValidateEntryDescription(description); err != nil {
			fmt.Fprintln(p.Out, "Error:", err)
			return nil, nil
		}
		result.Description = description
	}

	answer, eof, err := p.ask(ctx, "Save? [Y/n]: ")
	if err != nil {
		return nil, err
	}
	if eof || strings.EqualFold(answer, "n") || strings.EqualFold(answer, "no") {
		log.Debug().Msg("Editor cancelled at confirmation")
		return nil, nil
	}
	return &result, nil
}

func (p *PromptEditor) askTitle(ctx context.Context, current string, editing bool) (string, bool, error) {
	for attempt := 0; attempt < maxTitleAttempts; attempt++ {
		title, eof, err := p.ask(ctx, fmt.Sprintf("Title [%s]: ", current))
		if err != nil || eof {
			return "", false, err
		}
		if title == "" {
			if editing {
				return current, true, nil
			}
			return "", false, nil
		}
		if err := validation.ValidateEntryTitle(title); err != nil {
			fmt.Fprintln(p.Out, "Error:", err)
			continue
		}
		return title, true, nil
	}
	fmt.Fprintln(p.Out, "Too many invalid titles; cancelled.")
	return "", false, nil
}

// ask prints prompt and returns the trimmed answer. eof reports that input ended
// before a complete answer was read. A cancelled ctx is returned as the error.
func (p *PromptEditor) ask(ctx context.Context, prompt string) (answer string, eof bool, err error) {
	fmt.Fprint(p.Out, prompt)
	line, err := readLine(ctx, p.In)
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", true, nil
		}
		return strings.TrimSpace(line), false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), false, nil
}
