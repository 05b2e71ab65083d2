// Package agent holds the conversation logic shared by the interaction modes
// of Nexus.
//
// An Agent owns one chat session and a config.Manager. For every user message
// it asks its Responder for a reply under the API configuration current at
// that moment, records both sides of the exchange and renders the reply as an
// HTML fragment.
//
// # Failure policy
//
// A failed acquisition never surfaces as an error to the caller. Instead the
// reply becomes
//
//	Sorry, I'm having trouble connecting to the AI service. Error: <message>
//
// the configuration is switched to demo mode and persisted, and the history is
// saved. Later messages are then answered by the mock backend until the user
// configures a provider again.
//
// # Callbacks
//
// ProcessCallbacks lets the terminal mode print progress without the agent
// knowing how output is presented:
//
//	err := a.ProcessUserInput(ctx, "hello", agent.ProcessCallbacks{
//	    OnAssistantMessage: func(turn *agent.Turn) {
//	        // display turn.Reply
//	    },
//	    OnModeChange: func(mode config.Mode) {
//	        // show mode.Label
//	    },
//	})
//
// # Subpackages
//
// agent/terminal: interactive command-line chat with slash commands and
// glamour rendering.
package agent
