package parser

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/openkraft/codereview/internal/domain"
)

// PythonChecker implements domain.PatternChecker by walking a tree-sitter
// syntax tree of Python source.
type PythonChecker struct{}

func NewPythonChecker() *PythonChecker {
	return &PythonChecker{}
}

// Check reports eval/exec calls and augmented additions inside loops. When
// the source does not parse it returns a single syntax-error diagnostic and
// nothing else. The returned error is reserved for parser failures.
func (c *PythonChecker) Check(ctx context.Context, code string) ([]domain.Diagnostic, error) {
	src := []byte(code)

	// sitter.Parser is not safe for concurrent use; one per call.
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing python source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return []domain.Diagnostic{syntaxError(root)}, nil
	}
	if n := legacyStatement(root); n != nil {
		return []domain.Diagnostic{legacySyntaxError(n)}, nil
	}

	var diags []domain.Diagnostic
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "call":
			if d, ok := dangerousCall(n, src); ok {
				diags = append(diags, d)
			}
		case "for_statement":
			if isAsync(n) {
				break
			}
			if d, ok := loopConcat(n); ok {
				diags = append(diags, d)
			}
		}
		return true
	})

	return diags, nil
}

var dangerousBuiltins = map[string]string{
	"eval": "security/no-eval",
	"exec": "security/no-exec",
}

// dangerousCall matches calls whose callee is the bare name eval or exec.
// Aliases and attribute access (builtins.eval) are not followed.
func dangerousCall(n *sitter.Node, src []byte) (domain.Diagnostic, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return domain.Diagnostic{}, false
	}
	name := fn.Content(src)
	rule, ok := dangerousBuiltins[name]
	if !ok {
		return domain.Diagnostic{}, false
	}
	line, col := position(n)
	return domain.Diagnostic{
		Severity:   domain.SeverityError,
		Message:    fmt.Sprintf("Use of %s() is dangerous and should be avoided", name),
		Line:       line,
		Column:     col,
		RuleID:     rule,
		Confidence: domain.ConfidenceHigh,
	}, true
}

// loopConcat reports the first `+=` found breadth-first under a for loop.
// Only one finding per loop node, even if the body holds several.
func loopConcat(loop *sitter.Node) (domain.Diagnostic, bool) {
	var (
		found domain.Diagnostic
		ok    bool
	)
	walk(loop, func(n *sitter.Node) bool {
		if n.Type() != "augmented_assignment" {
			return true
		}
		op := n.ChildByFieldName("operator")
		if op == nil || op.Type() != "+=" {
			return true
		}
		line, col := position(n)
		found = domain.Diagnostic{
			Severity: domain.SeveritySuggestion,
			Message:  "Consider using list comprehension or append() instead of concatenation in loop",
			Line:     line,
			Column:   col,
			RuleID:   "performance/loop-concat",
		}
		ok = true
		return false
	})
	return found, ok
}

func isAsync(n *sitter.Node) bool {
	return n.ChildCount() > 0 && n.Child(0).Type() == "async"
}

// syntaxError locates the first error or missing node in document order.
func syntaxError(root *sitter.Node) domain.Diagnostic {
	d := domain.Diagnostic{
		Severity: domain.SeverityError,
		Line:     1,
		Column:   1,
		RuleID:   domain.RuleSyntaxError,
	}

	bad := firstError(root)
	if bad == nil {
		d.Message = "Syntax error: invalid syntax"
		return d
	}

	if open := unclosedBracket(root); open != nil && (bad.IsMissing() || bad.StartByte() <= open.StartByte()) {
		d.Line, d.Column = position(open)
		d.Message = fmt.Sprintf("Syntax error: '%s' was never closed (line %d)", open.Type(), d.Line)
		return d
	}

	d.Line, d.Column = position(bad)
	if bad.IsMissing() {
		d.Message = fmt.Sprintf("Syntax error: expected '%s' (line %d)", bad.Type(), d.Line)
	} else {
		d.Message = fmt.Sprintf("Syntax error: invalid syntax (line %d)", d.Line)
	}
	return d
}

// legacy2 holds the statement forms the grammar still accepts from Python 2.
var legacy2 = map[string]string{
	"print_statement": "print",
	"exec_statement":  "exec",
}

// legacyStatement returns the earliest Python 2 print or exec statement.
func legacyStatement(root *sitter.Node) *sitter.Node {
	var first *sitter.Node
	walk(root, func(n *sitter.Node) bool {
		if _, ok := legacy2[n.Type()]; ok && (first == nil || n.StartByte() < first.StartByte()) {
			first = n
		}
		return true
	})
	return first
}

func legacySyntaxError(n *sitter.Node) domain.Diagnostic {
	line, col := position(n)
	name := legacy2[n.Type()]
	return domain.Diagnostic{
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf("Syntax error: Missing parentheses in call to '%s' (line %d)", name, line),
		Line:     line,
		Column:   col,
		RuleID:   domain.RuleSyntaxError,
	}
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

// unclosedBracket returns the innermost opening bracket left open at the end
// of the source, or nil. Tokens inserted by error recovery are ignored.
func unclosedBracket(root *sitter.Node) *sitter.Node {
	var stack []*sitter.Node
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.ChildCount() == 0 {
			if n.IsMissing() {
				return
			}
			switch t := n.Type(); t {
			case "(", "[", "{":
				stack = append(stack, n)
			case ")", "]", "}":
				if len(stack) > 0 && stack[len(stack)-1].Type() == closers[t] {
					stack = stack[:len(stack)-1]
				}
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// walk visits n and its named descendants breadth-first, in source order
// within each level. Returning false from visit stops the walk.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	queue := []*sitter.Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !visit(cur) {
			return
		}
		for i := 0; i < int(cur.NamedChildCount()); i++ {
			if child := cur.NamedChild(i); child != nil {
				queue = append(queue, child)
			}
		}
	}
}

// position converts a node's zero-based row and byte column to 1-based
// line and column.
func position(n *sitter.Node) (int, int) {
	pt := n.StartPoint()
	row, err := safecast.Conv[int](pt.Row)
	if err != nil {
		return 1, 1
	}
	col, err := safecast.Conv[int](pt.Column)
	if err != nil {
		return row + 1, 1
	}
	return row + 1, col + 1
}
