package knowledge

import (
	"fmt"
	"strings"
)

// NoKnowledgeMarker stands in for the context when retrieval found nothing.
const NoKnowledgeMarker = "No specific maintenance knowledge found in the knowledge base. Base the plan on BS 7671:2018+A2:2022, IET Guidance Note 3 and the Electricity at Work Regulations 1989."

const (
	primaryHeader    = "PRACTICAL WORK INTELLIGENCE"
	fallbackHeader   = "MAINTENANCE KNOWLEDGE BASE"
	regulatoryHeader = "REGULATORY REFERENCES"
	truncatedNote    = "[Additional knowledge omitted to fit context limit]"
)

// DefaultMaxContextChars bounds the assembled context.
const DefaultMaxContextChars = 12000

type Assembler struct {
	processor *ContentProcessor
	maxChars  int
}

func NewAssembler(maxChars int) *Assembler {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	return &Assembler{processor: NewContentProcessor(), maxChars: maxChars}
}

// AssembleContext renders retrieved documents under one header per tier.
// Documents are added whole until the next one would cross maxChars.
func AssembleContext(result Result, maxChars int) string {
	return NewAssembler(maxChars).Assemble(result)
}

func (a *Assembler) Assemble(result Result) string {
	if len(result.Documents) == 0 {
		return NoKnowledgeMarker
	}

	budget := a.maxChars - len(truncatedNote) - 2
	var b strings.Builder
	currentTier := ""
	omitted := 0

	for i, doc := range result.Documents {
		var section strings.Builder
		if doc.Tier != currentTier {
			if b.Len() > 0 {
				section.WriteString("\n")
			}
			section.WriteString("=== " + tierHeader(doc.Tier) + " ===\n\n")
		}
		section.WriteString(a.renderDocument(i+1, doc))

		if b.Len()+section.Len() > budget {
			omitted = len(result.Documents) - i
			break
		}
		b.WriteString(section.String())
		currentTier = doc.Tier
	}

	if b.Len() == 0 {
		// A single oversized document still contributes its head.
		first := a.renderDocument(1, result.Documents[0])
		header := "=== " + tierHeader(result.Documents[0].Tier) + " ===\n\n"
		b.WriteString(header + a.processor.Truncate(first, budget-len(header)) + "\n")
	}

	if omitted > 0 {
		b.WriteString("\n" + truncatedNote)
	}
	return strings.TrimRight(b.String(), "\n")
}

func tierHeader(tier string) string {
	switch tier {
	case TierPrimary:
		return primaryHeader
	case TierRegulatory:
		return regulatoryHeader
	default:
		return fallbackHeader
	}
}

func (a *Assembler) renderDocument(n int, doc Document) string {
	var b strings.Builder
	topic := doc.Topic
	if topic == "" {
		topic = "Untitled"
	}
	fmt.Fprintf(&b, "[%d] %s (relevance: %.2f)\n", n, topic, doc.Score)

	if content := a.processor.CleanContent(doc.Content); content != "" {
		b.WriteString(content + "\n")
	}
	if doc.Interval != "" {
		fmt.Fprintf(&b, "Interval: %s\n", doc.Interval)
	}
	if len(doc.Tools) > 0 {
		fmt.Fprintf(&b, "Tools: %s\n", strings.Join(doc.Tools, ", "))
	}

	regs := doc.Regulations
	if len(regs) == 0 {
		regs = a.processor.ExtractRegulationRefs(doc.Content)
	}
	if len(regs) > 0 {
		fmt.Fprintf(&b, "Regulations: %s\n", strings.Join(regs, ", "))
	}
	if doc.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", doc.Source)
	}
	b.WriteString("\n")
	return b.String()
}
