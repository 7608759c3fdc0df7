package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chatbot-be/pkg/llm"
)

const (
	summaryInstruction = `Please provide a concise summary of this conversation in JSON format:
{
    "summary": "brief summary of the conversation"
}`

	profileInstruction = `From this conversation, extract the user's profession and personal information.
Return JSON format:
{
    "<PersonalInfo>": "extracted personal information about the user",
    "<Profession>": "user's profession or job"
}
If not found, use empty strings.`

	// SummaryFailed is stored when the summary call could not be completed.
	SummaryFailed = "Summary extraction failed"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{[^}]+\}`)

// ErrNoJSONObject means the text contains no brace-delimited candidate at all.
var ErrNoJSONObject = errors.New("extraction: no JSON object in reply")

type Summary struct {
	Text     string
	Degraded bool
}

type Profile struct {
	Profession   string
	PersonalInfo string
	Degraded     bool
}

func (p Profile) Empty() bool {
	return p.Profession == "" && p.PersonalInfo == ""
}

type Config struct {
	Model string
}

// Extractor derives a summary or a profile from a transcript with one LLM call each.
// Failures never escape: results come back with Degraded set instead.
type Extractor struct {
	provider llm.LLMProvider
	cfg      Config
}

func NewExtractor(provider llm.LLMProvider, cfg Config) *Extractor {
	return &Extractor{provider: provider, cfg: cfg}
}

func (e *Extractor) ExtractSummary(ctx context.Context, messages []llm.Message, opts ...llm.Option) Summary {
	reply, err := e.call(ctx, summaryInstruction, messages, 200, opts)
	if err != nil {
		return Summary{Text: SummaryFailed, Degraded: true}
	}

	obj, err := FindJSONObject(reply)
	if errors.Is(err, ErrNoJSONObject) {
		return Summary{Text: strings.TrimSpace(reply)}
	}
	if err != nil {
		return Summary{Text: SummaryFailed, Degraded: true}
	}
	if s := stringField(obj, "summary"); s != "" {
		return Summary{Text: s}
	}
	return Summary{Text: strings.TrimSpace(reply)}
}

func (e *Extractor) ExtractProfile(ctx context.Context, messages []llm.Message, opts ...llm.Option) Profile {
	reply, err := e.call(ctx, profileInstruction, messages, 300, opts)
	if err != nil {
		return Profile{Degraded: true}
	}

	obj, err := FindJSONObject(reply)
	if err != nil {
		return Profile{Degraded: true}
	}
	return Profile{
		Profession:   stringField(obj, "<Profession>", "Profession", "profession"),
		PersonalInfo: stringField(obj, "<PersonalInfo>", "PersonalInfo", "personal_info", "personal_info_text"),
	}
}

func (e *Extractor) call(ctx context.Context, instruction string, messages []llm.Message, maxTokens int, opts []llm.Option) (string, error) {
	prompt := fmt.Sprintf("%s\n\nConversation:\n%s", instruction, FormatTranscript(messages))

	callOpts := []llm.Option{llm.WithTemperature(0.3), llm.WithMaxTokens(maxTokens)}
	if e.cfg.Model != "" {
		callOpts = append(callOpts, llm.WithModel(e.cfg.Model))
	}
	callOpts = append(callOpts, opts...)

	return e.provider.Generate(ctx, prompt, callOpts...)
}

// FormatTranscript renders messages as "role: content" lines.
func FormatTranscript(messages []llm.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

// FindJSONObject decodes the first flat brace-delimited object in text.
// Nested objects are not supported; the match stops at the first closing brace.
// It returns ErrNoJSONObject when there is no candidate and a decode error when
// the candidate is not valid JSON.
func FindJSONObject(text string) (map[string]interface{}, error) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return nil, ErrNoJSONObject
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(match), &obj); err != nil {
		return nil, fmt.Errorf("extraction: decode JSON object: %w", err)
	}
	return obj, nil
}

func stringField(obj map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
