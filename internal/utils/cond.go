package querybuilder

// Condition is one WHERE term; terms are joined with AND.
type Condition struct {
	clause string
	args   []interface{}
}
