package models

import (
	"encoding/json"
	"fmt"
)

// Operator is the closed set of comparisons an achievement rule may use.
// The zero value is invalid so unparsed rules fail at load time instead of
// silently evaluating to false.
type Operator int

const (
	OpInvalid Operator = iota
	OpGTE
	OpGT
	OpEQ
	OpLT
)

// ParseOperator maps the wire form (">=", ">", "=", "<") to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case ">=":
		return OpGTE, nil
	case ">":
		return OpGT, nil
	case "=":
		return OpEQ, nil
	case "<":
		return OpLT, nil
	default:
		return OpInvalid, fmt.Errorf("unknown rule operator %q", s)
	}
}

func (op Operator) String() string {
	switch op {
	case OpGTE:
		return ">="
	case OpGT:
		return ">"
	case OpEQ:
		return "="
	case OpLT:
		return "<"
	default:
		return "invalid"
	}
}

// Holds applies the comparison to a stat value and the rule target.
func (op Operator) Holds(value, target float64) bool {
	switch op {
	case OpGTE:
		return value >= target
	case OpGT:
		return value > target
	case OpEQ:
		return value == target
	case OpLT:
		return value < target
	default:
		return false
	}
}

func (op Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(op.String())
}

func (op *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOperator(s)
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// AchievementRule is a declarative threshold predicate over a named stat
// counter. Each rule unlocks at most once per profile.
type AchievementRule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	StatKey     string   `json:"stat_key"`
	Op          Operator `json:"operator"`
	Target      float64  `json:"target_value"`
}

// AchievementRules is the built-in registry. Evaluation order is registry order.
var AchievementRules = []AchievementRule{
	{
		ID:          "first_share",
		Title:       "First Voice",
		Description: "Published your first food share",
		Icon:        "Megaphone",
		Color:       "bg-blue-500",
		StatKey:     "postedCount",
		Op:          OpGTE,
		Target:      1,
	},
	{
		ID:          "food_saver_1",
		Title:       "Food Saver Apprentice",
		Description: "Claimed 5 shared meals",
		Icon:        "Leaf",
		Color:       "bg-emerald-500",
		StatKey:     "savedCount",
		Op:          OpGTE,
		Target:      5,
	},
	{
		ID:          "food_saver_2",
		Title:       "Zero Waste Master",
		Description: "Claimed 10 shared meals",
		Icon:        "Award",
		Color:       "bg-orange-500",
		StatKey:     "savedCount",
		Op:          OpGTE,
		Target:      10,
	},
	{
		ID:          "night_owl",
		Title:       "Campus Night Owl",
		Description: "Claimed or posted food after 22:00",
		Icon:        "Moon",
		Color:       "bg-indigo-500",
		StatKey:     "nightOwlActions",
		Op:          OpGTE,
		Target:      1,
	},
}
