package domain

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// PatternType selects which item field a classification rule inspects
type PatternType string

const (
	PatternTitleContains       PatternType = "title_contains"
	PatternPublisherContains   PatternType = "publisher_contains"
	PatternDescriptionContains PatternType = "description_contains"
	PatternTitleRegex          PatternType = "title_regex"
)

// ParsePatternType resolves a pattern type tag
func ParsePatternType(s string) (PatternType, error) {
	switch p := PatternType(strings.ToLower(strings.TrimSpace(s))); p {
	case PatternTitleContains, PatternPublisherContains, PatternDescriptionContains, PatternTitleRegex:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pattern type: %q", s)
	}
}

// ClassificationRule maps a text pattern to a collection type
type ClassificationRule struct {
	ID          int64
	Pattern     string
	PatternType PatternType
	Priority    int
	MediaType   CollectionType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the rule can be evaluated
func (r ClassificationRule) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if _, err := ParsePatternType(string(r.PatternType)); err != nil {
		return err
	}
	if _, err := ParseCollectionType(string(r.MediaType)); err != nil {
		return err
	}
	if r.PatternType == PatternTitleRegex {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("invalid regex %q: %w", r.Pattern, err)
		}
	}
	return nil
}

// Matches reports whether the rule applies to the given item text.
// Substring patterns are case-insensitive; regex patterns are used verbatim.
func (r ClassificationRule) Matches(title, publisher, description string) bool {
	switch r.PatternType {
	case PatternTitleContains:
		return containsFold(title, r.Pattern)
	case PatternPublisherContains:
		return containsFold(publisher, r.Pattern)
	case PatternDescriptionContains:
		return containsFold(description, r.Pattern)
	case PatternTitleRegex:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(title)
	default:
		return false
	}
}

func containsFold(s, substr string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Classify picks the media type of the highest-priority matching rule.
// Ties keep the rule with the lowest ID.
func Classify(rules []ClassificationRule, title, publisher, description string) CollectionType {
	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b ClassificationRule) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for _, r := range ordered {
		if r.Matches(title, publisher, description) {
			return r.MediaType
		}
	}
	return DefaultCollectionType
}

// DefaultClassificationRules is the starter set seeded on first run
func DefaultClassificationRules() []ClassificationRule {
	return []ClassificationRule{
		{Pattern: "viz media", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionManga},
		{Pattern: "kodansha", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionManga},
		{Pattern: "shueisha", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionManga},
		{Pattern: "yen press", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionManga},
		{Pattern: "seven seas", PatternType: PatternPublisherContains, Priority: 90, MediaType: CollectionManga},
		{Pattern: "marvel", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionComic},
		{Pattern: "dc comics", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionComic},
		{Pattern: "image comics", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionComic},
		{Pattern: "dark horse", PatternType: PatternPublisherContains, Priority: 90, MediaType: CollectionComic},
		{Pattern: "nintendo", PatternType: PatternPublisherContains, Priority: 100, MediaType: CollectionGame},
		{Pattern: `(?i)\b(ps[345]|xbox|switch|nintendo)\b`, PatternType: PatternTitleRegex, Priority: 80, MediaType: CollectionGame},
		{Pattern: "manga", PatternType: PatternDescriptionContains, Priority: 50, MediaType: CollectionManga},
		{Pattern: "graphic novel", PatternType: PatternDescriptionContains, Priority: 40, MediaType: CollectionComic},
		{Pattern: "video game", PatternType: PatternDescriptionContains, Priority: 40, MediaType: CollectionGame},
		{Pattern: `(?i)\bvol\.?\s*\d+`, PatternType: PatternTitleRegex, Priority: 10, MediaType: CollectionManga},
	}
}
