package pricing

import (
	"strings"
	"time"
)

// ConditionType identifies a condition evaluator
type ConditionType string

const (
	ConditionDateRange         ConditionType = "date_range"
	ConditionDayOfWeek         ConditionType = "day_of_week"
	ConditionTimeOfDay         ConditionType = "time_of_day"
	ConditionCustomerAttribute ConditionType = "customer_attribute"
)

// Condition is a single eligibility predicate attached to a rule.
// Parameters are schemaless and interpreted by the registered evaluator.
type Condition struct {
	Type       ConditionType  `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ConditionEvaluator decides whether a condition is satisfied for a request
type ConditionEvaluator func(cond Condition, ctx PriceContext) bool

// ConditionRegistry maps condition types to evaluators. Conditions with no
// registered evaluator are treated as satisfied so that adding new condition
// types upstream never silently disables existing rules.
type ConditionRegistry struct {
	evaluators map[ConditionType]ConditionEvaluator
}

// NewConditionRegistry returns a registry with the built-in evaluators
func NewConditionRegistry() *ConditionRegistry {
	r := &ConditionRegistry{evaluators: make(map[ConditionType]ConditionEvaluator)}
	r.Register(ConditionDateRange, evaluateDateRange)
	r.Register(ConditionDayOfWeek, evaluateDayOfWeek)
	r.Register(ConditionTimeOfDay, evaluateTimeOfDay)
	r.Register(ConditionCustomerAttribute, evaluateCustomerAttribute)
	return r
}

// Register installs or replaces the evaluator for a condition type
func (r *ConditionRegistry) Register(t ConditionType, eval ConditionEvaluator) {
	r.evaluators[t] = eval
}

// Evaluate runs the evaluator for the condition's type.
// Unknown types are satisfied.
func (r *ConditionRegistry) Evaluate(cond Condition, ctx PriceContext) bool {
	eval, ok := r.evaluators[cond.Type]
	if !ok {
		return true
	}
	return eval(cond, ctx)
}

// EvaluateAll returns true only when every condition is satisfied
func (r *ConditionRegistry) EvaluateAll(conds []Condition, ctx PriceContext) bool {
	for _, cond := range conds {
		if !r.Evaluate(cond, ctx) {
			return false
		}
	}
	return true
}

// date_range: parameters start_date / end_date (RFC 3339 strings or
// time.Time). A missing or unparsable bound is open-ended.
func evaluateDateRange(cond Condition, ctx PriceContext) bool {
	if start, ok := paramTime(cond.Parameters, "start_date"); ok && ctx.Date.Before(start) {
		return false
	}
	if end, ok := paramTime(cond.Parameters, "end_date"); ok && ctx.Date.After(end) {
		return false
	}
	return true
}

// day_of_week: parameter days is a list of weekday numbers (0 = Sunday)
// or names. An empty list matches nothing.
func evaluateDayOfWeek(cond Condition, ctx PriceContext) bool {
	raw, ok := cond.Parameters["days"].([]any)
	if !ok {
		return false
	}
	current := ctx.Date.Weekday()
	for _, d := range raw {
		switch v := d.(type) {
		case float64:
			if time.Weekday(int(v)%7) == current {
				return true
			}
		case int:
			if time.Weekday(v%7) == current {
				return true
			}
		case string:
			if strings.EqualFold(v, current.String()) {
				return true
			}
		}
	}
	return false
}

// time_of_day: parameters start_hour / end_hour, matched as
// start_hour <= hour < end_hour in the request date's location.
func evaluateTimeOfDay(cond Condition, ctx PriceContext) bool {
	start, okStart := paramInt(cond.Parameters, "start_hour")
	end, okEnd := paramInt(cond.Parameters, "end_hour")
	if !okStart || !okEnd {
		return false
	}
	hour := ctx.Date.Hour()
	return hour >= start && hour < end
}

// customer_attribute: parameters attribute / value, compared
// case-insensitively against the context's customer attributes.
func evaluateCustomerAttribute(cond Condition, ctx PriceContext) bool {
	attr, okAttr := paramString(cond.Parameters, "attribute")
	want, okWant := paramString(cond.Parameters, "value")
	if !okAttr || !okWant {
		return false
	}
	got, ok := ctx.CustomerAttributes()[attr]
	if !ok {
		return false
	}
	return strings.EqualFold(got, want)
}

func paramTime(params map[string]any, key string) (time.Time, bool) {
	switch v := params[key].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func paramInt(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func paramString(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	return v, ok
}
