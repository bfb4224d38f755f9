package generation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"server/internal/providers/openai"
)

const systemMessage = "You are an advanced marketing copywriter assistant specializing in compelling product descriptions. " +
	"Follow the user instructions precisely and format your response into labeled sections. " +
	"Ensure the Body section always has at least one substantial paragraph with engaging content. " +
	"Use persuasive language and focus on benefits rather than just features."

const outputContract = "Write a compelling product description with these labeled sections:\n" +
	"Hook: (A short, attention-grabbing opening line)\n" +
	"Body: (At least one full paragraph describing benefits and features)\n" +
	"CTA: (A clear call-to-action)\n\n" +
	"Then provide a line labeled 'Suggested Hashtags and Keywords:' at the end. " +
	"Make sure each section is clearly marked."

// buildMessages assembles the chat payload for a description job: the fixed
// system instruction plus a structured user prompt listing every non-empty
// field on its own line, the viral style directive, the output contract, and
// any sanitized extra instructions.
func buildMessages(req Request) []openai.Message {
	var lines []string
	lines = append(lines, fmt.Sprintf("Product Name: %s", req.ProductName))
	optional := []struct {
		label string
		value string
	}{
		{"Product Details", req.ProductDetails},
		{"Language", req.Language},
		{"Tone", req.Tone},
		{"SEO Keywords", req.Keywords},
		{"Target Audience", req.Audience},
		{"Platform", req.Platform},
		{"Unique Selling Points", req.USPs},
		{"CTA Style", req.CTAStyle},
	}
	for _, field := range optional {
		if field.value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", field.label, field.value))
		}
	}
	if req.Viral {
		lines = append(lines, "Include emotional triggers, social proof, and FOMO for a viral effect.")
	} else {
		lines = append(lines, "Avoid explicit FOMO or hype; keep it persuasive yet balanced.")
	}

	instructions := outputContract
	if req.ExtraInstructions != "" {
		instructions += "\nAdditional instructions:\n" + req.ExtraInstructions
	}

	userPrompt := strings.Join(lines, "\n") + "\n\n" + instructions
	return []openai.Message{
		{Role: "system", Content: systemMessage},
		{Role: "user", Content: userPrompt},
	}
}

// buildImagePrompt produces the image model instruction. Embedded text,
// logos, and branding are explicitly forbidden.
func buildImagePrompt(productName string) string {
	title := cases.Title(language.Und).String(productName)
	return fmt.Sprintf("Generate a realistic, high-quality image of the product: %s. Do not include any text, logos, or branding.", title)
}

// LanguageName maps a BCP 47 locale to the English display name used on the
// prompt's Language line, falling back to English for anything unparseable.
func LanguageName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "English"
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return "English"
	}
	return name
}
