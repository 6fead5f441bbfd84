package querybuilder

import "fmt"

type JoinType int

const (
	JoinTypeInner JoinType = iota + 1
	JoinTypeLeft
	JoinTypeRight
)

func (j JoinType) String() string {
	switch j {
	case JoinTypeInner:
		return "INNER JOIN"
	case JoinTypeLeft:
		return "LEFT JOIN"
	case JoinTypeRight:
		return "RIGHT JOIN"
	default:
		return ""
	}
}

// join is one JOIN clause; table is already schema qualified.
type join struct {
	joinType JoinType
	table    string
	alias    string
	on       string
}

func (j join) clause() string {
	if j.alias == "" {
		return fmt.Sprintf(" %s %s ON %s", j.joinType, j.table, j.on)
	}
	return fmt.Sprintf(" %s %s %s ON %s", j.joinType, j.table, j.alias, j.on)
}
