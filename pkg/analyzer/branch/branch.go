// Package branch measures the branch structure of functions: counts,
// cyclomatic complexity, and the key conditions a test suite needs to
// cover.
package branch

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/analyzer/index"
	"github.com/seam-dev/seam/pkg/parser"
)

// Analyzer computes branch structure for indexed functions.
type Analyzer struct{}

// New creates a new branch analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// AnalyzeFunction computes branch structure for one function record.
// A body-less record yields the floor complexity of 1.
func (a *Analyzer) AnalyzeFunction(rec index.FunctionRecord, source []byte) FunctionBranches {
	fb := FunctionBranches{
		Name:      rec.Name,
		StartLine: rec.StartLine,
	}

	if rec.Body == nil {
		fb.Cyclomatic = 1
		return fb
	}

	returns := 0
	parser.WalkKinds(rec.Body, source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		switch kind {
		case parser.KindIfStatement:
			fb.IfCount++
			if len(keyConditionsOfKind(fb.KeyConditions, ConditionIf)) < MaxIfConditions {
				fb.KeyConditions = append(fb.KeyConditions, ifCondition(node, src))
			}
		case parser.KindForStatement, parser.KindWhileStatement, parser.KindDoStatement:
			fb.LoopCount++
			if len(keyConditionsOfKind(fb.KeyConditions, ConditionLoop)) < MaxLoopConditions {
				fb.KeyConditions = append(fb.KeyConditions, loopCondition(node, src))
			}
		case parser.KindSwitchStatement:
			fb.SwitchCount++
			cond := switchCondition(node, src)
			fb.CaseCount += len(cond.CaseValues)
			if len(keyConditionsOfKind(fb.KeyConditions, ConditionSwitch)) < MaxSwitchConditions {
				fb.KeyConditions = append(fb.KeyConditions, cond)
			}
		case parser.KindConditionalExpression:
			fb.TernaryCount++
		case parser.KindBinaryExpression:
			if op := logicalOperator(node); op != "" {
				fb.LogicalOps++
			}
		case parser.KindReturnStatement:
			returns++
		}
		return true
	})

	if returns > 1 {
		fb.EarlyReturns = returns - 1
	}

	fb.Cyclomatic = uint32(1 + fb.IfCount + fb.LoopCount + fb.CaseCount + fb.LogicalOps + fb.TernaryCount)
	return fb
}

// AnalyzeAll computes branch structure for every indexed function, in
// source order.
func (a *Analyzer) AnalyzeAll(ix *index.Index, source []byte) []FunctionBranches {
	out := make([]FunctionBranches, 0, len(ix.FunctionOrder))
	for _, name := range ix.FunctionOrder {
		out = append(out, a.AnalyzeFunction(ix.Functions[name], source))
	}
	return out
}

// conditionExpr pulls the condition text off a statement node. The C
// grammar wraps conditions in parenthesized_expression, the C++ grammar
// in condition_clause; both are stripped to the bare expression.
func conditionExpr(node *sitter.Node, source []byte) string {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return ""
	}
	text := strings.TrimSpace(parser.GetNodeText(cond, source))
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return strings.TrimSpace(text)
}

func ifCondition(node *sitter.Node, source []byte) Condition {
	expr := conditionExpr(node, source)
	return Condition{
		Kind:       ConditionIf,
		Line:       parser.StartLine(node),
		Expression: expr,
		Suggestion: fmt.Sprintf("cover both outcomes of %q", expr),
	}
}

func loopCondition(node *sitter.Node, source []byte) Condition {
	expr := conditionExpr(node, source)
	return Condition{
		Kind:       ConditionLoop,
		Line:       parser.StartLine(node),
		Expression: expr,
		Suggestion: "cover zero, one, and many iterations",
	}
}

func switchCondition(node *sitter.Node, source []byte) Condition {
	cond := Condition{
		Kind:       ConditionSwitch,
		Line:       parser.StartLine(node),
		Expression: conditionExpr(node, source),
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i, n := 0, int(body.ChildCount()); i < n; i++ {
			child := body.Child(i)
			if parser.KindOf(child) != parser.KindCaseStatement {
				continue
			}
			if value := child.ChildByFieldName("value"); value != nil {
				cond.CaseValues = append(cond.CaseValues, parser.GetNodeText(value, source))
			} else {
				cond.HasDefault = true
			}
		}
	}

	if cond.HasDefault {
		cond.Suggestion = fmt.Sprintf("cover all %d cases and the default", len(cond.CaseValues))
	} else {
		cond.Suggestion = fmt.Sprintf("cover all %d cases and an unmatched value", len(cond.CaseValues))
	}
	return cond
}

// logicalOperator returns "&&" or "||" when the binary expression is a
// short-circuit operator, else "".
func logicalOperator(node *sitter.Node) string {
	for i, n := 0, int(node.ChildCount()); i < n; i++ {
		t := node.Child(i).Type()
		if t == "&&" || t == "||" {
			return t
		}
	}
	return ""
}

func keyConditionsOfKind(conds []Condition, kind ConditionKind) []Condition {
	var out []Condition
	for _, c := range conds {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
