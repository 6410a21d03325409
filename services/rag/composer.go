package rag

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Intent is a coarse category of the question, used to pick the opening
// template. Categories are evaluated in priority order; the first match wins.
type Intent string

const (
	IntentSpecies  Intent = "species_identification"
	IntentLocation Intent = "location_habitat"
	IntentSighting Intent = "sighting_observation"
	IntentGeneral  Intent = "general"
)

// intentRule pairs a category with its trigger keywords. The rules slice is
// ordered; classification walks it front to back and exits on the first hit.
type intentRule struct {
	intent   Intent
	keywords map[string]struct{}
}

var intentRules = []intentRule{
	{IntentSpecies, keywordSet("what", "species", "animal", "plant", "describe", "identify")},
	{IntentLocation, keywordSet("where", "habitat", "found", "live", "location", "area", "region")},
	{IntentSighting, keywordSet("seen", "spotted", "observed", "sighting", "reported", "found")},
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Composer turns ranked retrieval results plus the original question into a
// final answer string. It is deliberately a template filler, not a generative
// model call: deterministic given identical inputs, testable offline.
type Composer struct {
	logger *zap.Logger
}

// NewComposer creates a Composer
func NewComposer(logger *zap.Logger) *Composer {
	return &Composer{logger: logger}
}

// Compose assembles the answer. Any panic during composition is converted to
// a generic apologetic message; composition never propagates a failure.
func (c *Composer) Compose(query string, documents []Document) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("answer composition failed",
				zap.Any("panic", r),
				zap.String("query", query))
			answer = fmt.Sprintf(
				"I'm sorry, I ran into a problem while putting together an answer to %q. Please try again later.",
				query)
		}
	}()

	if len(documents) == 0 {
		return fmt.Sprintf(
			"I don't have any information about %q in my knowledge base yet. "+
				"You could try rephrasing the question, or ask a local biodiversity expert or nature group in Islamabad.",
			query)
	}

	intent := classifyIntent(query)
	used := make([]bool, len(documents))

	var b strings.Builder
	switch intent {
	case IntentSpecies:
		b.WriteString("Here's what I know about the species you asked about:\n\n")
		if i := firstOfKind(documents, SourceSpecies); i >= 0 {
			b.WriteString(strings.TrimSpace(documents[i].Text))
			b.WriteString("\n")
			used[i] = true
		}

	case IntentLocation:
		b.WriteString("Based on local records, here's what I found about where this occurs:\n\n")
		if i := firstOfKind(documents, SourceSpecies); i >= 0 {
			b.WriteString(strings.TrimSpace(documents[i].Text))
			b.WriteString("\n")
			used[i] = true
		}

	case IntentSighting:
		b.WriteString("Here are relevant sightings reported by the community:\n\n")
		sightings := allOfKind(documents, SourceObservation)
		if len(sightings) > 1 {
			for _, i := range sightings {
				b.WriteString("- ")
				b.WriteString(strings.ReplaceAll(strings.TrimSpace(documents[i].Text), "\n", "; "))
				b.WriteString("\n")
				used[i] = true
			}
		} else if len(sightings) == 1 {
			i := sightings[0]
			b.WriteString(strings.TrimSpace(documents[i].Text))
			b.WriteString("\n")
			used[i] = true
		}

	default:
		b.WriteString("Here's the most relevant information I found:\n\n")
	}

	// The top-ranked document always makes it into the answer.
	if !used[0] {
		b.WriteString(strings.TrimSpace(documents[0].Text))
		b.WriteString("\n")
		used[0] = true
	}

	// Up to two more unused documents as an addendum.
	var extras []string
	for i, doc := range documents {
		if used[i] || len(extras) == 2 {
			continue
		}
		extras = append(extras, strings.ReplaceAll(strings.TrimSpace(doc.Text), "\n", "; "))
	}
	if len(extras) > 0 {
		b.WriteString("\nAdditional information:\n")
		for _, extra := range extras {
			b.WriteString("- ")
			b.WriteString(extra)
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// classifyIntent tokenizes the query (lowercase, whitespace split) and walks
// the ordered rules, returning the first category with a keyword hit.
func classifyIntent(query string) Intent {
	tokens := strings.Fields(strings.ToLower(query))

	for _, rule := range intentRules {
		for _, token := range tokens {
			token = strings.Trim(token, ".,!?;:\"'")
			if _, ok := rule.keywords[token]; ok {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// firstOfKind returns the index of the highest-ranked document of the given
// kind, or -1 when none exists. Documents arrive sorted by score.
func firstOfKind(documents []Document, kind SourceKind) int {
	for i, doc := range documents {
		if doc.Kind == kind {
			return i
		}
	}
	return -1
}

// allOfKind returns the indexes of every document of the given kind, in rank
// order.
func allOfKind(documents []Document, kind SourceKind) []int {
	var indexes []int
	for i, doc := range documents {
		if doc.Kind == kind {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
