// Package ui is the interactive terminal surface of a showcase session.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/habedi/showcase/alert"
	"github.com/habedi/showcase/selection"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// AlertView exposes the current alert for rendering.
type AlertView interface {
	State() alert.State
}

// alertFeed is implemented by alert sources that report changes as they happen.
type alertFeed interface {
	Subscribe(fn func(alert.State)) func()
}

// ResetPublisher triggers a reset of every subscriber.
type ResetPublisher interface {
	Publish(value bool)
}

// Console reads commands line by line and drives a selection engine.
type Console struct {
	Engine *selection.Engine
	Alerts AlertView
	Resets ResetPublisher
	Editor selection.Editor

	in     *bufio.Reader
	out    io.Writer
	prompt bool
	// alertShown is set while a visible alert has been printed and not yet dismissed.
	alertShown bool
}

// NewConsole wires a console to in and out. The prompt is shown only when in is a terminal.
// Editor defaults to a PromptEditor sharing the console's input.
func NewConsole(engine *selection.Engine, alerts AlertView, resets ResetPublisher, in io.Reader, out io.Writer) *Console {
	reader := bufio.NewReader(in)
	c := &Console{
		Engine: engine,
		Alerts: alerts,
		Resets: resets,
		Editor: NewPromptEditor(reader, out),
		in:     reader,
		out:    out,
	}
	if f, ok := in.(*os.File); ok {
		c.prompt = term.IsTerminal(int(f.Fd()))
	}
	return c
}

// Run processes commands until quit, end of input or ctx is cancelled.
// While it waits for input it reports an alert that expires.
func (c *Console) Run(ctx context.Context) error {
	changes := make(chan struct{}, 1)
	if feed, ok := c.Alerts.(alertFeed); ok {
		unsubscribe := feed.Subscribe(func(alert.State) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()
	}

	c.showDisplayed()
	var lines <-chan lineResult
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lines == nil {
			if c.prompt {
				fmt.Fprint(c.out, "> ")
			}
			lines = readAsync(c.in)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			c.alertChanged()
		case r := <-lines:
			lines = nil
			if r.err != nil && !errors.Is(r.err, io.EOF) {
				return fmt.Errorf("failed to read command: %w", r.err)
			}
			atEOF := r.err != nil
			if quit := c.Execute(ctx, r.line); quit || atEOF {
				return nil
			}
		}
	}
}

// Execute runs a single command line. It reports true when the session should end.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	log.Debug().Str("command", name).Strs("args", args).Msg("Console command")

	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		c.printHelp()
	case "option1", "option2", "random":
		opt, _ := selection.ParseOption(name)
		c.Engine.SelectOption(opt)
		fmt.Fprintf(c.out, "Option set to %s\n", opt)
	case "option", "select":
		if len(args) != 1 {
			fmt.Fprintf(c.out, "Usage: option <%s>\n", selection.OptionNames("|"))
			return false
		}
		opt, err := selection.ParseOption(args[0])
		if err != nil {
			fmt.Fprintln(c.out, "Error:", err)
			return false
		}
		c.Engine.SelectOption(opt)
		fmt.Fprintf(c.out, "Option set to %s\n", opt)
	case "replace":
		c.report(c.Engine.Replace())
	case "append":
		c.report(c.Engine.Append())
	case "reset":
		c.Resets.Publish(true)
		c.showDisplayed()
	case "show":
		c.showDisplayed()
	case "list":
		c.showCatalogue()
	case "entry":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "Usage: entry <id>")
			return false
		}
		c.showEntry(args[0])
	case "create", "new":
		c.report(c.Engine.Create(ctx, c.Editor))
	case "edit":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "Usage: edit <id>")
			return false
		}
		c.report(c.Engine.Edit(ctx, c.Editor, args[0]))
	case "delete", "rm":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "Usage: delete <id>")
			return false
		}
		c.report(c.Engine.DeleteEntry(args[0]))
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help' for the list of commands.\n", name)
	}
	return false
}

func (c *Console) report(outcome selection.Outcome, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, selection.ErrNotLoaded):
		fmt.Fprintln(c.out, "The catalogue is still loading; try again in a moment.")
		return
	case err != nil:
		fmt.Fprintln(c.out, "Error:", err)
		return
	}
	switch outcome {
	case selection.Applied:
		c.showDisplayed()
	case selection.Rejected:
		c.showAlert()
	default:
		if c.Engine.Selected() == selection.None {
			fmt.Fprintln(c.out, "Nothing changed. Choose option1, option2 or random first.")
		} else {
			fmt.Fprintln(c.out, "Nothing changed.")
		}
	}
}

func (c *Console) showDisplayed() {
	st := c.Engine.State()
	if len(st.Displayed) == 0 {
		fmt.Fprintln(c.out, "Nothing is displayed.")
	} else {
		RenderEntries(c.out, st.Displayed)
	}
	c.showAlert()
}

func (c *Console) showAlert() {
	if c.Alerts == nil {
		return
	}
	st := c.Alerts.State()
	RenderAlert(c.out, st)
	c.alertShown = st.Visible
}

func (c *Console) alertChanged() {
	if c.Alerts == nil || !c.alertShown || c.Alerts.State().Visible {
		return
	}
	c.alertShown = false
	fmt.Fprintln(c.out, "(alert dismissed)")
	if c.prompt {
		fmt.Fprint(c.out, "> ")
	}
}

func (c *Console) showCatalogue() {
	entries := c.Engine.Catalog()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "The catalogue is empty.")
		return
	}
	RenderEntries(c.out, entries)
}

func (c *Console) showEntry(id string) {
	entries := c.Engine.Catalog()
	idx := entries.IndexOf(id)
	if idx < 0 {
		fmt.Fprintf(c.out, "No entry with ID %s.\n", id)
		return
	}
	RenderEntry(c.out, entries[idx])
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintf(c.out, "  %-28s %s\n", selection.OptionNames(" | "), "choose what replace and append pick")
	fmt.Fprint(c.out, `  option <name>                same as above
  replace                      show only the chosen entry
  append                       add the chosen entry to the display
  reset                        return to the first entry
  show                         print the displayed entries
  list                         print the whole catalogue
  entry <id>                   print one entry
  create                       add a new entry
  edit <id>                    change an entry
  delete <id>                  remove an entry
  help                         print this help
  quit                         leave the session
`)
}

type lineResult struct {
	line string
	err  error
}

// readAsync reads one line from r in the background. The read keeps running
// until input arrives even if nobody waits for the result any more.
func readAsync(r *bufio.Reader) <-chan lineResult {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()
	return ch
}

// readLine is a blocking read that gives up when ctx is done.
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-readAsync(r):
		return res.line, res.err
	}
}
