package dao

import "fmt"

// ConnectionError covers the initial connection and health-check failures.
// It is fatal to startup; callers do not retry.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("mongodb connection failed: %v", e.Err) }
func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaSetupError covers collection or index creation failing for any
// reason other than "already exists".
type SchemaSetupError struct {
	Err error
}

func (e *SchemaSetupError) Error() string { return fmt.Sprintf("schema setup failed: %v", e.Err) }
func (e *SchemaSetupError) Unwrap() error { return e.Err }

// WriteError covers a single failed insert. The reading is dropped by the
// caller, never retried or queued.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("insert failed: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// QueryError covers any failed read or aggregation. Callers surface an
// empty result alongside it, never a partial one.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("query %s failed: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }
