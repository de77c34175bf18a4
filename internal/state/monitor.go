package state

// Op compares a snapshot field against a rule threshold.
type Op string

const (
	Above Op = "above"
	Below Op = "below"
)

// Rule flags a snapshot field that crosses a threshold.
type Rule struct {
	Name      string
	Field     string
	Op        Op
	Threshold float64
	Severity  string
}

// Monitor evaluates threshold rules against platform snapshots.
type Monitor struct {
	rules []Rule
}

// NewMonitor creates a monitor with the given rules.
func NewMonitor(rules ...Rule) *Monitor {
	return &Monitor{rules: rules}
}

// Evaluate returns one alert payload per violated rule. Fields missing from
// the snapshot or holding non-numeric values never fire.
func (m *Monitor) Evaluate(snapshot map[string]any) []map[string]any {
	var alerts []map[string]any
	for _, r := range m.rules {
		value, ok := numericField(snapshot, r.Field)
		if !ok {
			continue
		}

		violated := (r.Op == Above && value > r.Threshold) ||
			(r.Op == Below && value < r.Threshold)
		if !violated {
			continue
		}

		alerts = append(alerts, map[string]any{
			"rule":      r.Name,
			"field":     r.Field,
			"value":     value,
			"threshold": r.Threshold,
			"severity":  r.Severity,
		})
	}
	return alerts
}

func numericField(snapshot map[string]any, field string) (float64, bool) {
	switch v := snapshot[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
