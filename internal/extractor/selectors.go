package extractor

import "strings"

// BoilerplateFilter decides whether a container element is navigation
// chrome rather than content, based on its class and id tokens. The
// substring heuristic is deliberately loose; swapping in a stricter
// matcher must not require touching the extraction pass.
type BoilerplateFilter interface {
	Drop(classAndID string) bool
}

type SubstringBoilerplateFilter struct {
	tokens []string
}

func NewSubstringBoilerplateFilter() SubstringBoilerplateFilter {
	return SubstringBoilerplateFilter{
		tokens: []string{"nav", "footer", "header", "menu"},
	}
}

func (f SubstringBoilerplateFilter) Drop(classAndID string) bool {
	lowered := strings.ToLower(classAndID)
	for _, token := range f.tokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

// ReviewClassifier identifies review containers and their parts by class
// attribute. Like the boilerplate filter it is a pluggable strategy.
type ReviewClassifier interface {
	IsContainer(class string) bool
	IsAuthor(class string) bool
	IsDate(class string) bool
	IsRating(class string) bool
	IsReadMore(class string) bool
	IsVerified(class string) bool
	Platform() string
}

type SubstringReviewClassifier struct{}

func NewSubstringReviewClassifier() SubstringReviewClassifier {
	return SubstringReviewClassifier{}
}

func (SubstringReviewClassifier) IsContainer(class string) bool {
	return containsAny(class, "review", "testimonial", "comment")
}

func (SubstringReviewClassifier) IsAuthor(class string) bool {
	return containsAny(class, "author", "reviewer", "user")
}

func (SubstringReviewClassifier) IsDate(class string) bool {
	return containsAny(class, "date", "time", "posted")
}

func (SubstringReviewClassifier) IsRating(class string) bool {
	return containsAny(class, "rating", "stars", "score")
}

func (SubstringReviewClassifier) IsReadMore(class string) bool {
	return containsAny(class, "read-more", "read more", "show more")
}

func (SubstringReviewClassifier) IsVerified(class string) bool {
	return containsAny(class, "verified")
}

func (SubstringReviewClassifier) Platform() string {
	return "Amazon"
}

func containsAny(s string, tokens ...string) bool {
	lowered := strings.ToLower(s)
	for _, token := range tokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
