package models

type Table struct {
	Schema string
	Name   string
	Type   string
}

type Column struct {
	Name     string
	DataType string
	Nullable bool
	Position int
}

type TableDetails struct {
	Table
	Columns []Column
	Rows    int64
}

type StatementResult struct {
	Columns   []string
	Rows      [][]any
	Truncated bool
}
