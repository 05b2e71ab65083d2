package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LLMClient answers a single user message with response text.
type LLMClient interface {
	Respond(ctx context.Context, message string) (string, error)
}

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 10 * 1024 * 1024

// systemGuidelines steers tone and formatting so replies suit the formatter.
const systemGuidelines = `You are a helpful AI assistant. Please respond naturally and appropriately to the user's message.

**Guidelines:**
- For simple greetings (hi, hello, hey): Respond warmly and briefly
- For casual conversation: Be friendly and conversational
- For technical/code questions: Provide well-structured code with explanations
- For complex topics: Use clear sections, bullet points, or numbered steps when helpful
- For creative requests: Be engaging and creative
- Always match the tone and complexity of the user's question

**Formatting (use only when helpful):**
- Use **bold** for emphasis
- Use bullet points for lists
- Use code blocks ` + "```" + ` for code examples
- Keep paragraphs concise`

// BuildPrompt embeds the user's message in the instructional prompt sent to
// providers that take a single text part.
func BuildPrompt(message string) string {
	return fmt.Sprintf("\n%s\n\n**Current user message:** \"%s\"\n\nPlease provide a natural, appropriate response:", systemGuidelines, message)
}

// NewHTTPClient returns the client used for raw HTTP providers. A zero
// timeout leaves requests bounded only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}
