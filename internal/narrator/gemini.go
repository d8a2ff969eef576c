package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

//go:embed prompts/narrate.txt
var narratePrompt string

//go:embed prompts/summarize.txt
var summarizePrompt string

var (
	narrateTmpl   = template.Must(template.New("narrate").Parse(narratePrompt))
	summarizeTmpl = template.Must(template.New("summarize").Parse(summarizePrompt))
)

// Older events are folded into the running summary once the history grows
// past maxHistory, keeping the last keepHistory verbatim.
const (
	maxHistory  = 8
	keepHistory = 3
)

var errNoContent = errors.New("no content returned from Gemini")

// Gemini narrates with a Gemini model and remembers the story so far.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel

	mu      sync.Mutex
	summary string
	history []string
}

// NewGemini connects to the Gemini API. An empty model picks DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

type narrateData struct {
	Character string
	Class     string
	Level     int
	Summary   string
	Recent    []string
	Headline  string
	Details   []string
}

func renderNarrate(ev Event, summary string, recent []string) (string, error) {
	var buf bytes.Buffer
	err := narrateTmpl.Execute(&buf, narrateData{
		Character: ev.Character,
		Class:     string(ev.Class),
		Level:     ev.Level,
		Summary:   summary,
		Recent:    recent,
		Headline:  ev.Headline(),
		Details:   ev.Details,
	})
	return buf.String(), err
}

func renderSummarize(summary string, events []string) (string, error) {
	var buf bytes.Buffer
	err := summarizeTmpl.Execute(&buf, struct {
		Summary string
		Events  []string
	}{summary, events})
	return buf.String(), err
}

// Narrate asks the model to describe ev. The event is recorded in the
// history even when the call fails.
func (g *Gemini) Narrate(ctx context.Context, ev Event) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) > maxHistory {
		if err := g.summarize(ctx); err != nil {
			// Keep the full history and try again next time.
			log.Printf("Warning: failed to summarize history: %v", err)
		}
	}

	prompt, err := renderNarrate(ev, g.summary, g.history)
	g.history = append(g.history, ev.Headline())
	if err != nil {
		return "", err
	}
	return g.generate(ctx, prompt)
}

func (g *Gemini) summarize(ctx context.Context) error {
	old := g.history[:len(g.history)-keepHistory]
	prompt, err := renderSummarize(g.summary, old)
	if err != nil {
		return err
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return err
	}
	g.summary = text
	g.history = append([]string(nil), g.history[len(g.history)-keepHistory:]...)
	return nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errNoContent
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}
