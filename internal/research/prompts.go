package research

import (
	"fmt"
	"strings"

	"github.com/prospectorhq/prospector/internal/model"
)

const profileSystemPrompt = "You are a B2B sales research assistant. Always return valid JSON."

const (
	// Per-source excerpt cap keeps the prompt within model context limits
	promptSourceMaxChars = 2000
	transcriptMaxChars   = 8000
)

func buildProfilePrompt(account *model.Account, sources []model.Source) string {
	var b strings.Builder

	b.WriteString("Analyze the provided source content and generate a company profile.\n\n")
	b.WriteString("CRITICAL REQUIREMENTS:\n")
	b.WriteString("1. Every factual claim MUST be backed by evidence from the provided sources\n")
	b.WriteString("2. If you cannot find evidence in the sources, set source_url to null and confidence to 0.3 or below\n")
	b.WriteString("3. Include a direct quote as evidence_quote for each sourced claim\n")
	b.WriteString("4. Confidence scores: 0.8-1.0 (clear evidence), 0.5-0.7 (implied), 0.1-0.3 (unsourced or inferred)\n\n")

	fmt.Fprintf(&b, "Company: %s\n", account.Name)
	fmt.Fprintf(&b, "Domain: %s\n\n", account.Domain)

	b.WriteString("Source Content:\n")
	for i, source := range sources {
		fmt.Fprintf(&b, "\n--- Source %d: %s ---\n", i+1, source.URL)
		fmt.Fprintf(&b, "Title: %s\n", source.Title)
		fmt.Fprintf(&b, "Content: %s\n", capText(source.RawText, promptSourceMaxChars))
	}

	b.WriteString("\nReturn a JSON object with this exact structure:\n")
	b.WriteString(`{
  "summary": "One-paragraph company summary",
  "industry": "specific industry category",
  "claims": [
    {
      "text": "Factual claim about the company",
      "source_url": "https://source-url-if-available or null",
      "evidence_quote": "Direct quote supporting this claim, or null",
      "confidence": 0.85
    }
  ]
}
`)
	b.WriteString("\nEnsure all claims are specific and actionable for sales purposes.\n")
	return b.String()
}

func buildTranscriptPrompt(transcript string) string {
	var b strings.Builder

	b.WriteString("Analyze this meeting transcript and extract the key information.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(capText(transcript, transcriptMaxChars))
	b.WriteString("\n\nReturn a JSON object with this exact structure:\n")
	b.WriteString(`{
  "summary": "High-level summary of the meeting",
  "next_steps": ["Specific action item and who owns it"],
  "blockers": ["Identified blocker or concern"],
  "objections": ["Objection raised during the meeting"]
}
`)
	b.WriteString("\nFocus on actionable items and explicit concerns.\n")
	return b.String()
}

func capText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
