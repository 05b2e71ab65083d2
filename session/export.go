package session

import (
	"html/template"
	"io"

	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/formatter"
)

var exportTmpl = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div class="chat-messages">
{{- range .Messages}}
<div class="message {{.Sender}}-message">
<div class="message-content{{if .Formatted}} formatted-content{{end}}">{{.Body}}<span class="timestamp">{{.Clock}}</span></div>
</div>
{{- end}}
</div>
</body>
</html>
`))

type exportMessage struct {
	Sender    Sender
	Formatted bool
	Body      template.HTML
	Clock     string
}

// Render returns the display markup of a message: formatted messages go
// through the formatter, plain ones become an escaped paragraph.
func (m Message) Render() string {
	if m.Formatted {
		return formatter.Format(m.Text)
	}
	return "<p>" + template.HTMLEscapeString(m.Text) + "</p>"
}

// ExportHTML writes the session as a standalone HTML page.
func (s *Session) ExportHTML(w io.Writer, theme string) error {
	title := "Nexus AI chat"
	if s.Name != "" {
		title += " - " + s.Name
	}

	msgs := make([]exportMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		clock := ""
		if t := m.Time(); !t.IsZero() {
			clock = t.Local().Format("15:04")
		}
		msgs = append(msgs, exportMessage{
			Sender:    m.Sender,
			Formatted: m.Formatted,
			Body:      template.HTML(m.Render()),
			Clock:     clock,
		})
	}

	err := exportTmpl.Execute(w, struct {
		Title    string
		Theme    string
		Messages []exportMessage
	}{title, theme, msgs})
	return errors.Wrapf(err, "failed to export chat history")
}
