// Package llm - schema.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "CandidateFacts")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CandidateFactsSchema returns the extraction schema for resume documents.
// Extracts identity, contact info, experience, education, and skills.
func CandidateFactsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "CandidateFacts",
		Description: `You are an expert resume parser. COPY TEXT VERBATIM - do not paraphrase or embellish.
Your task is to extract structured candidate facts from raw resume text.
IMPORTANT: Preserve the exact wording from the original text.
Goal: Extract name, contact details, work experience, education, and skills.
EXCLUDE: References, hobbies, photo captions, page headers and footers.`,
		Fields: []SchemaField{
			{
				Name:        "name",
				Type:        "\"string\"",
				Description: "Candidate's full name as written",
				Required:    false,
			},
			{
				Name:        "email",
				Type:        "\"string\"",
				Description: "Email address if present",
				Required:    false,
			},
			{
				Name:        "phone",
				Type:        "\"string\"",
				Description: "Phone number if present",
				Required:    false,
			},
			{
				Name:        "location",
				Type:        "\"string\"",
				Description: "City/country if present",
				Required:    false,
			},
			{
				Name:        "experience",
				Type:        "[{\"employer\": \"string\", \"title\": \"string\", \"duration\": \"string\"}]",
				Description: "Work history in document order - copy employer and title verbatim",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        "[{\"institution\": \"string\", \"degree\": \"string\", \"years\": \"string\"}]",
				Description: "Education entries in document order",
				Required:    false,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Distinct skill names mentioned anywhere in the resume",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "The candidate's own summary/objective section, verbatim, or empty",
				Required:    false,
			},
		},
	}
}
