package store

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

// encodeTree converts statements to a structpb.ListValue blob. The list
// has the same shape as the canonical JSON.
func encodeTree(stmts []ast.Statement) ([]byte, error) {
	list, err := ast.ToList(stmts)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	pb, err := structpb.NewList(list)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(pb)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return data, nil
}

// decodeTree is the inverse of encodeTree. Numbers decode as float64.
func decodeTree(data []byte) ([]any, error) {
	var pb structpb.ListValue
	if err := proto.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return pb.AsSlice(), nil
}
