package commands

import (
	"context"
	"fmt"
	"strings"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// ClassifyCommand guesses the collection type of an item from its text
type ClassifyCommand struct {
	inv         *application.Inventory
	Title       string
	Publisher   string
	Description string
}

// NewClassifyCommand creates a new ClassifyCommand
func NewClassifyCommand(inv *application.Inventory, title, publisher, description string) *ClassifyCommand {
	return &ClassifyCommand{
		inv:         inv,
		Title:       title,
		Publisher:   publisher,
		Description: description,
	}
}

// Validate requires at least one non-empty field
func (c *ClassifyCommand) Validate() error {
	if strings.TrimSpace(c.Title+c.Publisher+c.Description) == "" {
		return &application.ValidationError{
			Field:   "title",
			Message: "a title, publisher or description is required",
		}
	}
	return nil
}

// Execute runs the classify command
func (c *ClassifyCommand) Execute(ctx context.Context) (domain.CollectionType, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	t, err := c.inv.Classify(ctx, c.Title, c.Publisher, c.Description)
	if err != nil {
		return "", fmt.Errorf("failed to classify: %w", err)
	}
	return t, nil
}

// AddRuleCommand stores a new classification rule
type AddRuleCommand struct {
	inv         *application.Inventory
	Pattern     string
	PatternType string
	MediaType   string
	Priority    int
}

// NewAddRuleCommand creates a new AddRuleCommand
func NewAddRuleCommand(inv *application.Inventory, pattern, patternType, mediaType string, priority int) *AddRuleCommand {
	return &AddRuleCommand{
		inv:         inv,
		Pattern:     pattern,
		PatternType: patternType,
		MediaType:   mediaType,
		Priority:    priority,
	}
}

func (c *AddRuleCommand) rule() (*domain.ClassificationRule, error) {
	if err := application.ValidateRequired("pattern", c.Pattern); err != nil {
		return nil, err
	}
	patternType, err := domain.ParsePatternType(c.PatternType)
	if err != nil {
		return nil, &application.ValidationError{Field: "patternType", Message: err.Error()}
	}
	mediaType, err := domain.ParseCollectionType(c.MediaType)
	if err != nil {
		return nil, &application.ValidationError{Field: "mediaType", Message: err.Error()}
	}
	rule := &domain.ClassificationRule{
		Pattern:     c.Pattern,
		PatternType: patternType,
		Priority:    c.Priority,
		MediaType:   mediaType,
	}
	if err := rule.Validate(); err != nil {
		return nil, &application.ValidationError{Field: "pattern", Message: err.Error()}
	}
	return rule, nil
}

// Validate checks the rule can be evaluated
func (c *AddRuleCommand) Validate() error {
	_, err := c.rule()
	return err
}

// Execute runs the add rule command
func (c *AddRuleCommand) Execute(ctx context.Context) (*domain.ClassificationRule, error) {
	rule, err := c.rule()
	if err != nil {
		return nil, err
	}
	if err := c.inv.AddRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to add rule: %w", err)
	}
	return rule, nil
}
