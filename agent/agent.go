package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/session"
)

// SelfTestMessage is sent by SelfTest.
const SelfTestMessage = "Hello, this is a test message. Please respond with 'Gemini 2.0 API is working!'"

// Responder obtains reply text for a message under an API configuration.
// *llm.Acquirer is the production implementation.
type Responder interface {
	Acquire(ctx context.Context, api config.APIConfig, message string) (string, error)
}

// Turn is the outcome of one user message.
type Turn struct {
	User  session.Message
	Reply session.Message
	// Fragment is the HTML rendering of Reply.
	Fragment string
	// Err is the acquisition failure that produced an apology reply, if any.
	Err error
}

// ProcessCallbacks lets an interaction mode observe a turn as it happens.
type ProcessCallbacks struct {
	OnThinking         func()
	OnAssistantMessage func(turn *Turn)
	OnModeChange       func(mode config.Mode)
	OnWarning          func(warning string)
}

type Agent struct {
	Config    *config.Manager
	Session   *session.Session
	Responder Responder
	logger    *slog.Logger
}

func New(mgr *config.Manager, sess *session.Session, responder Responder, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		Config:    mgr,
		Session:   sess,
		Responder: responder,
		logger:    logger,
	}
}

// apology is the bot reply shown when no response could be obtained.
func apology(err error) string {
	return "Sorry, I'm having trouble connecting to the AI service. Error: " + err.Error()
}

// Send records input, obtains a reply and records it. Blank input is ignored
// and yields a nil Turn. When acquisition fails the reply is an apology, the
// configuration falls back to demo mode and the failure is kept in Turn.Err.
// The returned error reports persistence failures only; a cancelled ctx is
// returned as is without touching the configuration.
func (a *Agent) Send(ctx context.Context, input string) (*Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	turn := &Turn{User: a.Session.AddMessage(input, session.SenderUser)}
	text, err := a.Responder.Acquire(ctx, a.Config.API(), input)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var saveErr error
	if err != nil {
		a.logger.Error("error getting AI response", "kind", errors.KindOf(err), "error", err)
		turn.Err = err
		turn.Reply = a.Session.AddMessage(apology(err), session.SenderBot)
		if serr := a.Config.SetDemoMode(); serr != nil {
			saveErr = errors.Wrapf(serr, "failed to save demo mode")
		}
	} else {
		turn.Reply = a.Session.AddFormattedMessage(text, session.SenderBot)
	}
	turn.Fragment = turn.Reply.Render()

	if serr := a.Session.Save(); serr != nil && saveErr == nil {
		saveErr = errors.Wrapf(serr, "failed to save session")
	}
	return turn, saveErr
}

// ProcessUserInput runs Send and reports its progress through callbacks.
func (a *Agent) ProcessUserInput(ctx context.Context, input string, callbacks ProcessCallbacks) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if callbacks.OnThinking != nil {
		callbacks.OnThinking()
	}

	before := a.Config.API().UseMock
	turn, err := a.Send(ctx, input)
	if turn == nil {
		return err
	}
	if err != nil && callbacks.OnWarning != nil {
		callbacks.OnWarning(err.Error())
	}
	if callbacks.OnAssistantMessage != nil {
		callbacks.OnAssistantMessage(turn)
	}
	if !before && a.Config.API().UseMock && callbacks.OnModeChange != nil {
		callbacks.OnModeChange(a.Config.Mode())
	}
	return nil
}

// SelfTest sends a fixed message through the current configuration and
// reports the outcome as text. It does not record anything or change modes.
func (a *Agent) SelfTest(ctx context.Context) string {
	text, err := a.Responder.Acquire(ctx, a.Config.API(), SelfTestMessage)
	if err != nil {
		a.logger.Error("API test failed", "error", err)
		return "API Test Failed: " + err.Error()
	}
	return "API Test Successful: " + text
}

// NewChat clears the conversation and its stored history.
func (a *Agent) NewChat() error {
	return a.Session.Clear()
}
