package database

import (
	"context"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Query executes a raw SurrealQL query with parameters and returns the rows of
// the first statement, unmarshalled into T.
//
// Example:
//
//	query := "SELECT * FROM product WHERE owner = $owner"
//	rows, err := Query[productRecord](ctx, db, query, map[string]any{"owner": ownerID})
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	if db == nil {
		return nil, NewDBError(ErrNotConnected, "query")
	}
	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(err, "query execution failed").WithQuery(query)
	}
	if queryResults == nil || len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// QueryOne executes a query and returns a single result.
// If no results are found, it returns nil, nil.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	// CREATE/UPDATE/DELETE statements don't support LIMIT.
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		query += " LIMIT 1"
	}

	results, err := Query[T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// Execute runs a statement whose rows are not needed.
func Execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	if db == nil {
		return NewDBError(ErrNotConnected, "execute")
	}
	if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
		return NewDBError(err, "query execution failed").WithQuery(query)
	}
	return nil
}

// hasLimitClause checks if the query already has a LIMIT clause
func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}
