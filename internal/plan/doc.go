// Package plan builds the logical source tree of a SELECT.
//
// A plan is a left-deep binary tree. Leaves are Scan nodes, one per entry
// of SelectStatement.Tables; inner nodes are Join nodes. The tree is built
// by folding the tables in source order:
//
//	FROM a, b LEFT JOIN c ON p
//
//	          Join LEFT ON p
//	         /             \
//	  Join CROSS (implicit)  Scan C
//	   /        \
//	Scan A     Scan B
//
// A table introduced by a comma combines with everything before it as an
// implicit cross product; a table introduced by JOIN uses that clause's
// type and ON placeholder.
//
// SEALED INTERFACE:
//
// Node is sealed with a marker method. The implementers are *Scan and
// *Join, so switches over Node can be exhaustive:
//
//	switch n := node.(type) {
//	case *plan.Scan:
//	case *plan.Join:
//	}
//
// EXECUTION ORDER:
//
// ScanOrder lists leaves left to right. That is the default nested
// iteration order: the first table is the outermost loop and the last
// table the innermost.
package plan
