package plan

import (
	"fmt"
	"strings"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

// Node is a logical plan node.
//
// This is a sealed interface. Node types:
//   - *Scan: read one table
//   - *Join: combine two subtrees
type Node interface {
	planNode()
}

// Scan reads one table. Index is the table's position in
// SelectStatement.Tables.
type Scan struct {
	Table string
	Alias string
	Index int
}

func (*Scan) planNode() {}

// Join combines Left and Right. Implicit marks a cross product written
// with a comma rather than an explicit JOIN; On is nil for cross products
// and for LEFT/RIGHT joins written without ON.
type Join struct {
	Left     Node
	Right    Node
	Type     ast.JoinType
	On       *ast.Predicate
	Implicit bool
}

func (*Join) planNode() {}

// Build returns the left-deep plan for stmt's sources.
func Build(stmt *ast.SelectStatement) (Node, error) {
	if stmt == nil {
		return nil, fmt.Errorf("cannot plan nil statement")
	}
	if errs := ast.Validate([]ast.Statement{stmt}); len(errs) > 0 {
		return nil, fmt.Errorf("invalid statement: %w", errs[0])
	}

	joins := make(map[int]ast.JoinClause, len(stmt.Joins))
	for i, j := range stmt.Joins {
		if j.Left != j.Right-1 {
			return nil, fmt.Errorf("join %d: left operand %d is not the table before %d", i, j.Left, j.Right)
		}
		joins[j.Right] = j
	}

	var root Node = scanOf(stmt, 0)
	for i := 1; i < len(stmt.Tables); i++ {
		node := &Join{Left: root, Right: scanOf(stmt, i)}
		if j, ok := joins[i]; ok {
			node.Type = j.Type
			node.On = j.On
		} else {
			node.Type = ast.JoinCross
			node.Implicit = true
		}
		root = node
	}
	return root, nil
}

func scanOf(stmt *ast.SelectStatement, i int) *Scan {
	t := stmt.Tables[i]
	return &Scan{Table: t.Name, Alias: t.Alias, Index: i}
}

// ScanOrder returns the scans of n in nested iteration order, outermost
// first.
func ScanOrder(n Node) []*Scan {
	var scans []*Scan
	var walk func(Node)
	walk = func(n Node) {
		switch node := n.(type) {
		case *Scan:
			scans = append(scans, node)
		case *Join:
			walk(node.Left)
			walk(node.Right)
		case nil:
		default:
			panic(fmt.Sprintf("plan: unknown node type %T", n))
		}
	}
	walk(n)
	return scans
}

// Explain renders n as an indented tree, one node per line, children
// indented two spaces under their parent.
func Explain(n Node) string {
	var b strings.Builder
	explain(&b, n, 0)
	return b.String()
}

func explain(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *Scan:
		b.WriteString(indent + "Scan " + node.Table)
		if node.Alias != "" {
			b.WriteString(" AS " + node.Alias)
		}
		b.WriteByte('\n')
	case *Join:
		b.WriteString(indent + "Join " + joinLabel(node.Type))
		switch {
		case node.Implicit:
			b.WriteString(" (implicit)")
		case node.On != nil:
			b.WriteString(" ON " + node.On.Text)
		}
		b.WriteByte('\n')
		explain(b, node.Left, depth+1)
		explain(b, node.Right, depth+1)
	default:
		panic(fmt.Sprintf("plan: unknown node type %T", n))
	}
}

func joinLabel(t ast.JoinType) string {
	switch t {
	case ast.JoinCross:
		return "CROSS"
	case ast.JoinLeft:
		return "LEFT"
	case ast.JoinRight:
		return "RIGHT"
	default:
		panic(fmt.Sprintf("plan: unknown join type %d", int(t)))
	}
}
