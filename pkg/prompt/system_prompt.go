package prompt

import (
	"fmt"
	"strings"
)

const (
	PersonalInfoPlaceholder = "<PersonalInfo>"
	NotProvided             = "Not provided yet"
)

// DefaultTemplate is a neutral tutor persona. Deployments may supply their own
// template; it only needs to contain PersonalInfoPlaceholder.
const DefaultTemplate = `You are a friendly English-speaking coach. Keep replies short, encouraging and practical.

What you know about the user:
<PersonalInfo>

Correct mistakes gently and end with a question that keeps the conversation going.`

const professionBlock = "\n\n⸻\n**USER'S PROFESSION: %s**\n⸻\n" +
	"Tailor all responses to be relevant to this profession. Use profession-specific examples and scenarios.\n⸻\n"

// BuildSystemPrompt fills the template with the user's profile.
func BuildSystemPrompt(template, profession, personalInfo string) string {
	if template == "" {
		template = DefaultTemplate
	}

	info := strings.TrimSpace(personalInfo)
	if info == "" {
		info = NotProvided
	}
	out := strings.ReplaceAll(template, PersonalInfoPlaceholder, info)

	if p := strings.TrimSpace(profession); p != "" {
		out += fmt.Sprintf(professionBlock, p)
	}
	return out
}
