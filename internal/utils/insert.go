package querybuilder

// InsertRows holds the value tuples of a multi-row insert, one slice per row.
type InsertRows [][]interface{}
