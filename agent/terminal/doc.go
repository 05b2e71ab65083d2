// Package terminal implements the interactive command-line chat of Nexus.
//
// Lines typed by the user are sent to the agent; replies are rendered with
// glamour using the persisted theme, or printed as HTML fragments when the
// display setting is "html". Lines starting with a slash are commands:
//
//	/new    start a new chat
//	/demo   switch to demo mode
//	/mode   show the current mode
//	/test   test the API connection
//	/theme  toggle light and dark theme
//	/quit   leave (also /exit)
//
// The current mode is printed at start-up and whenever a failed request drops
// the agent into demo mode.
package terminal
