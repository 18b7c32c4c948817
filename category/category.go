// Package category assigns a single category label to an API by scoring its
// title and description against a keyword taxonomy.
//
// The taxonomy is immutable data injected at construction, so concurrent
// runs with different tables never interfere:
//
//	inf := category.New(category.DefaultTable())
//	label := inf.Infer(doc) // e.g. "code", "finance", or "general"
package category

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/erraggy/oasmcp/parser"
)

// Fallback is the label returned by DefaultTable when no keyword matches.
const Fallback = "general"

// Entry is one category and the keywords that indicate it.
type Entry struct {
	Label    string
	Keywords []string
}

// Table is an ordered, immutable keyword taxonomy. Entry order is the
// tie-break order: the first entry reaching the maximum score wins.
type Table struct {
	entries  []Entry
	fallback string
}

// NewTable builds a table from entries, copied so later changes to the
// arguments do not affect the table. An empty fallback defaults to "general".
func NewTable(fallback string, entries ...Entry) Table {
	if fallback == "" {
		fallback = Fallback
	}
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		copied[i] = Entry{Label: e.Label, Keywords: append([]string(nil), e.Keywords...)}
	}
	return Table{entries: copied, fallback: fallback}
}

// DefaultTable returns the built-in taxonomy.
func DefaultTable() Table {
	return NewTable(Fallback,
		Entry{Label: "code", Keywords: []string{"github", "gitlab", "bitbucket", "repository", "git", "commit", "pull request"}},
		Entry{Label: "communication", Keywords: []string{"slack", "discord", "teams", "email", "chat", "message", "notification"}},
		Entry{Label: "project_management", Keywords: []string{"jira", "asana", "trello", "monday", "task", "project", "sprint"}},
		Entry{Label: "cloud", Keywords: []string{"aws", "azure", "gcp", "kubernetes", "docker", "terraform", "cloud"}},
		Entry{Label: "data", Keywords: []string{"postgres", "mysql", "mongodb", "redis", "database", "query", "analytics"}},
		Entry{Label: "crm", Keywords: []string{"salesforce", "hubspot", "pipedrive", "customer", "lead", "deal"}},
		Entry{Label: "marketing", Keywords: []string{"mailchimp", "sendgrid", "marketing", "campaign", "newsletter"}},
		Entry{Label: "finance", Keywords: []string{"stripe", "paypal", "payment", "invoice", "transaction"}},
		Entry{Label: "ai", Keywords: []string{"openai", "anthropic", "ai", "ml", "model", "embedding", "completion"}},
		Entry{Label: "productivity", Keywords: []string{"calendar", "drive", "docs", "sheets", "office", "productivity"}},
	)
}

// Entries returns a copy of the table entries in order.
func (t Table) Entries() []Entry {
	return NewTable(t.fallback, t.entries...).entries
}

// Fallback returns the label used when nothing matches.
func (t Table) Fallback() string {
	if t.fallback == "" {
		return Fallback
	}
	return t.fallback
}

// Labels returns the category labels in table order.
func (t Table) Labels() []string {
	labels := make([]string, len(t.entries))
	for i, e := range t.entries {
		labels[i] = e.Label
	}
	return labels
}

// Inferrer scores documents against a table.
type Inferrer struct {
	table Table
}

// New creates an Inferrer over table.
func New(table Table) *Inferrer {
	return &Inferrer{table: table}
}

// Score is the number of an entry's keywords found in the scored text.
type Score struct {
	Label string
	Score int
}

// Infer returns the category label for doc based on its info title and description.
func (inf *Inferrer) Infer(doc *parser.Document) string {
	return inf.InferText(doc.Info.Title, doc.Info.Description)
}

// InferText returns the category label for a title and description.
// Each keyword contributes at most one point however often it appears.
func (inf *Inferrer) InferText(title, description string) string {
	best, bestScore := inf.table.Fallback(), 0
	for _, s := range inf.Scores(title, description) {
		if s.Score > bestScore {
			best, bestScore = s.Label, s.Score
		}
	}
	return best
}

// Scores returns every entry's score in table order.
func (inf *Inferrer) Scores(title, description string) []Score {
	// A Caser carries state, so each call gets its own.
	fold := cases.Fold()
	text := fold.String(title + " " + description)

	scores := make([]Score, len(inf.table.entries))
	for i, e := range inf.table.entries {
		scores[i].Label = e.Label
		for _, kw := range e.Keywords {
			if kw != "" && strings.Contains(text, fold.String(kw)) {
				scores[i].Score++
			}
		}
	}
	return scores
}
