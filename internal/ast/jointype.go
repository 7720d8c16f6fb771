package ast

import "fmt"

// JoinType is the closed set of supported join kinds.
type JoinType int

const (
	JoinCross JoinType = iota + 1
	JoinLeft
	JoinRight
)

// JoinTypes lists every JoinType in declaration order.
var JoinTypes = []JoinType{JoinCross, JoinLeft, JoinRight}

func (j JoinType) String() string {
	switch j {
	case JoinCross:
		return "CROSS"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("JoinType(%d)", int(j))
	}
}

// Valid reports whether j is one of the declared join types.
func (j JoinType) Valid() bool {
	switch j {
	case JoinCross, JoinLeft, JoinRight:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (j JoinType) MarshalText() ([]byte, error) {
	if !j.Valid() {
		return nil, fmt.Errorf("invalid join type %d", int(j))
	}
	return []byte(j.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *JoinType) UnmarshalText(text []byte) error {
	jt, err := ParseJoinType(string(text))
	if err != nil {
		return err
	}
	*j = jt
	return nil
}

// ParseJoinType converts "CROSS", "LEFT" or "RIGHT" to a JoinType.
func ParseJoinType(s string) (JoinType, error) {
	for _, jt := range JoinTypes {
		if jt.String() == s {
			return jt, nil
		}
	}
	return 0, fmt.Errorf("unknown join type %q", s)
}
