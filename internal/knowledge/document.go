// Package knowledge retrieves maintenance knowledge for a request and turns
// it into a bounded prompt context.
package knowledge

const (
	TierPrimary    = "primary"
	TierFallback   = "fallback"
	TierRegulatory = "regulatory"
	TierNone       = "none"
)

// Document is one retrieved snippet.
type Document struct {
	ID          string   `json:"id"`
	Tier        string   `json:"tier"`
	Score       float64  `json:"score"`
	Topic       string   `json:"topic,omitempty"`
	Content     string   `json:"content"`
	Source      string   `json:"source,omitempty"`
	Interval    string   `json:"interval,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	Regulations []string `json:"regulations,omitempty"`
}

// Stats describes what retrieval did. It is reported, never branched on.
type Stats struct {
	Tier            string  `json:"tier"`
	PrimaryCount    int     `json:"primaryCount"`
	FallbackCount   int     `json:"fallbackCount"`
	RegulatoryCount int     `json:"regulatoryCount"`
	AverageScore    float64 `json:"averageScore"`
}

type Result struct {
	Documents []Document
	Stats     Stats
}

func averageScore(docs []Document) float64 {
	if len(docs) == 0 {
		return 0
	}
	var sum float64
	for _, d := range docs {
		sum += d.Score
	}
	return sum / float64(len(docs))
}
