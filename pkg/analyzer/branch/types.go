package branch

// Caps on how many key conditions are surfaced per function. Counting
// is exhaustive; only the detail listing is bounded.
const (
	MaxIfConditions     = 10
	MaxSwitchConditions = 5
	MaxLoopConditions   = 3
)

// ConditionKind tags a surfaced condition.
type ConditionKind string

const (
	ConditionIf     ConditionKind = "if"
	ConditionSwitch ConditionKind = "switch"
	ConditionLoop   ConditionKind = "loop"
)

// Condition is one branch point worth writing a test around.
type Condition struct {
	Kind       ConditionKind `json:"kind"`
	Line       uint32        `json:"line"`
	Expression string        `json:"expression"`
	CaseValues []string      `json:"case_values,omitempty"`
	HasDefault bool          `json:"has_default,omitempty"`
	Suggestion string        `json:"suggestion"`
}

// FunctionBranches holds the branch structure of one function.
type FunctionBranches struct {
	Name      string `json:"name"`
	StartLine uint32 `json:"start_line"`

	Cyclomatic   uint32 `json:"cyclomatic"`
	IfCount      int    `json:"if_count"`
	LoopCount    int    `json:"loop_count"`
	SwitchCount  int    `json:"switch_count"`
	CaseCount    int    `json:"case_count"`
	TernaryCount int    `json:"ternary_count"`
	LogicalOps   int    `json:"logical_ops"`
	EarlyReturns int    `json:"early_returns"`

	KeyConditions []Condition `json:"key_conditions,omitempty"`
}
