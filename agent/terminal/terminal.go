package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/m4xw311/nexus/agent"
	"github.com/m4xw311/nexus/config"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

const helpText = `Commands:
  /new    start a new chat
  /demo   switch to demo mode
  /mode   show the current mode
  /test   test the API connection
  /theme  toggle light and dark theme
  /quit   leave (also /exit)`

// Terminal handles the terminal/CLI interaction mode for the agent
type Terminal struct {
	agent    *agent.Agent
	in       io.Reader
	out      io.Writer
	renderer *glamour.TermRenderer
	// rendererTheme is the theme renderer was built for.
	rendererTheme string
}

// New creates a new Terminal instance reading stdin and writing stdout.
func New(a *agent.Agent) *Terminal {
	return NewWithIO(a, os.Stdin, os.Stdout)
}

// NewWithIO creates a Terminal on the given streams.
func NewWithIO(a *agent.Agent, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		agent: a,
		in:    in,
		out:   out,
	}
}

// Run starts the interactive terminal session
func (t *Terminal) Run(ctx context.Context, initialPrompt string) error {
	t.printMode()

	// If there's an initial prompt from the command line, use it first
	if initialPrompt != "" {
		if err := t.processTurn(ctx, initialPrompt); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(t.in)
	for {
		fmt.Fprint(t.out, promptStyle.Render("You: "))
		if !scanner.Scan() {
			// EOF or read error ends the session
			break
		}

		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}

		if strings.HasPrefix(userInput, "/") {
			quit, err := t.command(ctx, userInput)
			if err != nil {
				fmt.Fprintf(t.out, "Error: %v\n", err)
			}
			if quit {
				break
			}
			continue
		}

		if err := t.processTurn(ctx, userInput); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

// Once processes a single message without entering the prompt loop.
func (t *Terminal) Once(ctx context.Context, message string) error {
	return t.processTurn(ctx, message)
}

// command runs a slash command and reports whether the session should end.
func (t *Terminal) command(ctx context.Context, input string) (bool, error) {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit":
		return true, nil
	case "/new":
		if err := t.agent.NewChat(); err != nil {
			return false, err
		}
		fmt.Fprintln(t.out, dimStyle.Render("Started a new chat."))
	case "/demo":
		if err := t.agent.Config.SetDemoMode(); err != nil {
			return false, err
		}
		fmt.Fprintln(t.out, "Demo mode activated! Using mock responses.")
		t.printMode()
	case "/mode":
		t.printMode()
	case "/test":
		fmt.Fprintln(t.out, dimStyle.Render("Testing API connection..."))
		fmt.Fprintln(t.out, t.agent.SelfTest(ctx))
	case "/theme":
		theme, err := t.agent.Config.ToggleTheme()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(t.out, "Theme set to %s.\n", theme)
	case "/help":
		fmt.Fprintln(t.out, helpText)
	default:
		fmt.Fprintf(t.out, "Unknown command %s. Type /help for a list.\n", input)
	}
	return false, nil
}

// processTurn handles a single user input turn
func (t *Terminal) processTurn(ctx context.Context, userInput string) error {
	callbacks := agent.ProcessCallbacks{
		OnThinking: func() {
			fmt.Fprintln(t.out, dimStyle.Render("Nexus is typing..."))
		},
		OnAssistantMessage: func(turn *agent.Turn) {
			fmt.Fprintf(t.out, "%s %s\n", botStyle.Render("Nexus:"), t.display(turn))
		},
		OnModeChange: func(mode config.Mode) {
			t.printMode()
		},
		OnWarning: func(warning string) {
			fmt.Fprintln(t.out, warnStyle.Render("Warning: "+warning))
		},
	}

	return t.agent.ProcessUserInput(ctx, userInput, callbacks)
}

// display returns the reply as it should appear on this terminal: the HTML
// fragment in html display mode, otherwise markdown rendered for the theme.
func (t *Terminal) display(turn *agent.Turn) string {
	cfg := t.agent.Config.Config()
	if cfg.Display == config.DisplayHTML {
		return turn.Fragment
	}
	if !turn.Reply.Formatted {
		return turn.Reply.Text
	}
	r, err := t.rendererFor(t.agent.Config.Theme())
	if err != nil {
		return turn.Reply.Text
	}
	out, err := r.Render(turn.Reply.Text)
	if err != nil {
		return turn.Reply.Text
	}
	return strings.TrimSpace(out)
}

func (t *Terminal) rendererFor(theme string) (*glamour.TermRenderer, error) {
	if t.renderer != nil && t.rendererTheme == theme {
		return t.renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}
	t.renderer, t.rendererTheme = r, theme
	return r, nil
}

func (t *Terminal) printMode() {
	mode := t.agent.Config.Mode()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(mode.Color))
	fmt.Fprintln(t.out, style.Render(mode.Label))
}
