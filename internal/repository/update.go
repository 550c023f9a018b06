package repository

import "strings"

// field pairs a column with an optional new value for a partial UPDATE.
// val is one of *string, *uint64 or *bool; nil pointers are skipped.
type field struct {
	col string
	val any
}

// buildSet assembles the SET clause of a partial update in declaration
// order, returning the clause ("name=?, slug=?") and its arguments.  An
// empty clause means no field was provided.
func buildSet(fs []field) (string, []any) {
	cols := make([]string, 0, len(fs))
	args := make([]any, 0, len(fs))
	for _, f := range fs {
		switch v := f.val.(type) {
		case *string:
			if v != nil {
				cols = append(cols, f.col+"=?")
				args = append(args, *v)
			}
		case *uint64:
			if v != nil {
				cols = append(cols, f.col+"=?")
				args = append(args, *v)
			}
		case *bool:
			if v != nil {
				cols = append(cols, f.col+"=?")
				args = append(args, *v)
			}
		}
	}
	return strings.Join(cols, ", "), args
}
