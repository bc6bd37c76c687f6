package app

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/vows/internal/domain"
)

// SystemPrompt frames the model as the writer for every request.
const SystemPrompt = "You are a thoughtful and eloquent writer specializing in crafting meaningful vows and personal letters."

// BuildPrompt renders the user message for req. The request is expected
// to have passed Validate.
func BuildPrompt(req domain.GenerationRequest) string {
	tone := strings.ToLower(strings.TrimSpace(req.Tone))
	if tone == "" {
		tone = domain.DefaultTone
	}

	name := strings.TrimSpace(req.PersonName)
	relationship := strings.TrimSpace(req.Relationship)
	personal := strings.TrimSpace(req.PersonalContext)

	var b strings.Builder

	b.WriteString("You are a thoughtful and eloquent writer helping someone craft ")

	if req.Mode == domain.ModeEulogy {
		b.WriteString("a meaningful eulogy.\n\n")
		if relationship != "" {
			fmt.Fprintf(&b, "The user wants to write a eulogy for their %s named %s.", relationship, name)
		} else {
			fmt.Fprintf(&b, "The user wants to write a eulogy honoring %s.", name)
		}
	} else {
		b.WriteString("meaningful vows or a personal letter.\n\n")
		fmt.Fprintf(&b, "The user wants to write vows for their %s named %s.", relationship, name)
	}

	fmt.Fprintf(&b, " They've chosen a seed quote to inspire their writing:\n\n\"%s\" - %s",
		strings.TrimSpace(req.Quote.Text), req.Quote.Author)

	if personal != "" {
		fmt.Fprintf(&b, "\n\nAdditional context about %s and our relationship:\n%s", name, personal)
	}

	guidelines := guidelinesFor(req.Mode, tone)
	if personal != "" {
		guidelines = append(guidelines, personalGuideline(req.Mode))
	}

	if req.Mode == domain.ModeEulogy {
		b.WriteString("\n\nPlease write a heartfelt, genuine eulogy that:\n")
	} else {
		b.WriteString("\n\nPlease write heartfelt, genuine vows that:\n")
	}

	for i, g := range guidelines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g)
	}

	if req.Mode == domain.ModeEulogy {
		fmt.Fprintf(&b, "\nWrite it to be read aloud in memory of %s. It should feel personal and sincere, "+
			"drawing inspiration from the quote while celebrating the life that was lived.", name)
	} else {
		fmt.Fprintf(&b, "\nWrite in a letter format addressing %s. The vows should feel personal and sincere, "+
			"drawing inspiration from the quote while expressing genuine commitment and love.", name)
	}

	return b.String()
}

func guidelinesFor(mode domain.Mode, tone string) []string {
	if mode == domain.ModeEulogy {
		return []string{
			"Acknowledge the seed quote and how it reflects the person's life",
			"Express deep, authentic feelings without being overly flowery",
			"Share what the person gave to the people around them",
			"Are personal and meaningful, not generic - weave in the specific context provided when available",
			"Reference the wisdom of the philosopher/author in a natural way",
			fmt.Sprintf("Keep the tone %s, genuine, and from the heart", tone),
		}
	}

	return []string{
		"Acknowledge the seed quote and how it relates to their relationship",
		"Express deep, authentic feelings without being overly flowery",
		"Include specific promises about growth, support, and partnership",
		"Are personal and meaningful, not generic - weave in the specific context provided when available",
		"Reference the wisdom of the philosopher/author in a natural way",
		fmt.Sprintf("Keep the tone %s, genuine, and from the heart", tone),
	}
}

func personalGuideline(mode domain.Mode) string {
	if mode == domain.ModeEulogy {
		return "Incorporate the personal details provided to make the eulogy truly unique to this person"
	}

	return "Incorporate the personal details provided to make the vows truly unique and specific to this relationship"
}
