package rules

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/errors"
	"github.com/mlakeland/timeblock/internal/logger"
	"github.com/mlakeland/timeblock/internal/models"
)

// TextGenerator is the external text-generation collaborator used for rule
// extraction. Implementations must honor context cancellation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result holds the validated rules of one run plus the recoverable conditions
// hit while producing them.
type Result struct {
	Rules   []models.AllocationRule
	Dropped []string // raw text of rules that failed validation or resolution
	// Degraded is set when the generator was unreachable or returned
	// unparseable output; scheduling proceeds on priority/due-date alone.
	Degraded bool
}

// Interpreter turns free-form instruction text into allocation rules through
// a single structured-extraction request per scheduling run.
type Interpreter struct {
	Generator       TextGenerator
	SlotDurationMin int
	Timeout         time.Duration
}

// fencedJSON extracts a JSON payload wrapped in triple backticks, which some
// generators produce even when told not to.
var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Interpret extracts, validates, and resolves allocation rules from the raw
// instruction text. Generator failure is never fatal: the run continues with
// an empty rule set and Result.Degraded set.
func (it *Interpreter) Interpret(ctx context.Context, instructions string, tasks []models.Task) Result {
	if strings.TrimSpace(instructions) == "" {
		return Result{}
	}

	timeout := it.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := it.Generator.Generate(genCtx, BuildExtractionPrompt(instructions, tasks))
	if err != nil {
		logger.Warn("Rule extraction unavailable, continuing without rules", "error", err)
		return Result{Degraded: true}
	}

	parsed, err := decodeRules(raw)
	if err != nil {
		logger.Warn("Rule extraction returned unparseable output, continuing without rules", "error", err)
		return Result{Degraded: true}
	}

	var result Result
	for _, rule := range parsed {
		rule, ok := it.validate(rule)
		if !ok {
			result.Dropped = append(result.Dropped, rule.Raw)
			continue
		}
		if len(TargetTaskIDs(rule, tasks)) == 0 {
			logger.Warn("Dropping rule", "kind", rule.TargetKind, "target", rule.Target,
				"error", &errors.UnresolvedRuleError{Rule: rule.Raw})
			result.Dropped = append(result.Dropped, rule.Raw)
			continue
		}
		result.Rules = append(result.Rules, rule)
	}
	return result
}

func decodeRules(response string) ([]models.AllocationRule, error) {
	payload := response
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		payload = m[1]
	} else if idx := strings.Index(response, "["); idx >= 0 {
		// Fall back to the first bracketed array in the response.
		if end := strings.LastIndex(response, "]"); end > idx {
			payload = response[idx : end+1]
		}
	}

	var rules []models.AllocationRule
	if err := json.Unmarshal([]byte(payload), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// validate normalizes one extracted rule. It rejects unrecognized frequency
// units and target kinds, clamps a minimum duration below the slot size up to
// the slot size, and discards bands that do not parse as HH:MM.
func (it *Interpreter) validate(rule models.AllocationRule) (models.AllocationRule, bool) {
	switch rule.Period {
	case models.PeriodDay, models.PeriodWeek, models.PeriodMonth:
	default:
		logger.Warn("Dropping rule with unrecognized frequency unit", "period", rule.Period, "raw", rule.Raw)
		return rule, false
	}

	switch rule.TargetKind {
	case models.TargetTask, models.TargetProject, models.TargetTag:
	default:
		logger.Warn("Dropping rule with unrecognized target kind", "kind", rule.TargetKind, "raw", rule.Raw)
		return rule, false
	}

	if strings.TrimSpace(rule.Target) == "" {
		return rule, false
	}

	if rule.TimesPerPeriod <= 0 {
		rule.TimesPerPeriod = 1
	}

	if rule.MinDurationMin > 0 && rule.MinDurationMin < it.SlotDurationMin {
		rule.MinDurationMin = it.SlotDurationMin
	}
	if rule.MaxDurationMin > 0 && rule.MaxDurationMin < rule.MinDurationMin {
		rule.MaxDurationMin = rule.MinDurationMin
	}

	if rule.Band != nil {
		if _, err := time.Parse(constants.TimeFormat, rule.Band.Start); err != nil {
			logger.Warn("Ignoring malformed time band", "band", rule.Band.Start, "raw", rule.Raw)
			rule.Band = nil
		} else if _, err := time.Parse(constants.TimeFormat, rule.Band.End); err != nil {
			logger.Warn("Ignoring malformed time band", "band", rule.Band.End, "raw", rule.Raw)
			rule.Band = nil
		}
	}

	return rule, true
}

// TargetTaskIDs resolves a rule's target to the IDs of the tasks it governs.
func TargetTaskIDs(rule models.AllocationRule, tasks []models.Task) []string {
	var ids []string
	for _, t := range tasks {
		if Targets(rule, t) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Targets reports whether the rule applies to the given task.
func Targets(rule models.AllocationRule, task models.Task) bool {
	target := strings.ToLower(strings.TrimSpace(rule.Target))
	switch rule.TargetKind {
	case models.TargetTask:
		return task.ID == rule.Target || strings.ToLower(task.Title) == target
	case models.TargetProject:
		return task.ProjectID == rule.Target || strings.ToLower(task.ProjectName) == target
	case models.TargetTag:
		for _, label := range task.Labels {
			if strings.ToLower(label) == target {
				return true
			}
		}
	}
	return false
}

// RuleFor returns the first rule in declaration order that targets the task,
// or nil. First match wins so that two runs over identical input agree.
func RuleFor(rulesList []models.AllocationRule, task models.Task) *models.AllocationRule {
	for i := range rulesList {
		if Targets(rulesList[i], task) {
			return &rulesList[i]
		}
	}
	return nil
}
