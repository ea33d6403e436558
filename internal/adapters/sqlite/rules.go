package sqlite

import (
	"context"
	"fmt"
	"time"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// RuleRepository implements ports.ClassificationRepository
type RuleRepository struct {
	g *Gateway
}

// Ensure RuleRepository implements ClassificationRepository
var _ ports.ClassificationRepository = (*RuleRepository)(nil)

// NewRuleRepository creates a repository over the gateway
func NewRuleRepository(g *Gateway) *RuleRepository {
	return &RuleRepository{g: g}
}

// ListRules returns rules in evaluation order: priority first, then ID
func (r *RuleRepository) ListRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	rows, err := r.g.Query(ctx, `
		SELECT id, pattern, pattern_type, priority, media_type, created_at, updated_at
		FROM classification_rules
		ORDER BY priority DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ClassificationRule
	for rows.Next() {
		var (
			rule                 domain.ClassificationRule
			patternType, media   string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rule.ID, &rule.Pattern, &patternType, &rule.Priority, &media, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list rules: %w", translate("select classification_rules", err))
		}
		if rule.PatternType, err = domain.ParsePatternType(patternType); err != nil {
			r.g.log.Warn().Err(err).Int64("rule", rule.ID).Msg("skipping rule")
			continue
		}
		if rule.MediaType, err = domain.ParseCollectionType(media); err != nil {
			r.g.log.Warn().Err(err).Int64("rule", rule.ID).Msg("skipping rule")
			continue
		}
		rule.CreatedAt, _ = parseTime(createdAt)
		rule.UpdatedAt, _ = parseTime(updatedAt)
		rules = append(rules, rule)
	}
	return rules, translate("select classification_rules", rows.Err())
}

// AddRule validates and stores a rule, filling in its ID
func (r *RuleRepository) AddRule(ctx context.Context, rule *domain.ClassificationRule) error {
	if err := rule.Validate(); err != nil {
		return invalidInput("add rule", err.Error(), err)
	}
	now := time.Now()
	rule.CreatedAt, rule.UpdatedAt = now, now

	res, err := r.g.Exec(ctx, `
		INSERT INTO classification_rules (pattern, pattern_type, priority, media_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rule.Pattern, string(rule.PatternType), rule.Priority, string(rule.MediaType), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("add rule: %w", err)
	}
	if rule.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("add rule: %w", translate("insert classification_rules", err))
	}
	return nil
}

// DeleteRule removes a rule; deleting a missing rule is not an error
func (r *RuleRepository) DeleteRule(ctx context.Context, id int64) error {
	if _, err := r.g.Exec(ctx, `DELETE FROM classification_rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete rule %d: %w", id, err)
	}
	return nil
}

// Classify evaluates the stored rules against the item text
func (r *RuleRepository) Classify(ctx context.Context, title, publisher, description string) (domain.CollectionType, error) {
	rules, err := r.ListRules(ctx)
	if err != nil {
		return "", err
	}
	return domain.Classify(rules, title, publisher, description), nil
}
