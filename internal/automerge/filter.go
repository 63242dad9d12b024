package automerge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// EventFilter is an optional jq predicate that is evaluated against the raw
// JSON payload of the triggering event before it is dispatched.
// Events for which the query does not evaluate to true are skipped.
type EventFilter struct {
	query    *gojq.Query
	rawQuery string
}

func NewEventFilter(jqQuery string) (*EventFilter, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	return &EventFilter{
		query:    query,
		rawQuery: jqQuery,
	}, nil
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errors []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errors
		}

		if err, isErr := res.(error); isErr {
			errors = append(errors, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}

// Match returns true if the filter query evaluates to true for the JSON
// event payload.
// The query must produce exactly one boolean result, everything else is an
// error.
func (f *EventFilter) Match(ctx context.Context, payloadJSON []byte) (bool, error) {
	var evUn any

	if len(payloadJSON) == 0 {
		return false, errors.New("event payload is empty")
	}

	if err := json.Unmarshal(payloadJSON, &evUn); err != nil {
		return false, fmt.Errorf("unmarshalling event payload failed: %w", err)
	}

	results, errs := goJQIterToSlice(f.query.RunWithContext(ctx, evUn))
	if len(errs) != 0 {
		return false, fmt.Errorf("evaluating filter query failed: %s", errString(errs))
	}

	if len(results) != 1 {
		return false, fmt.Errorf("filter query returned %d results, expected exactly 1", len(results))
	}

	matched, ok := results[0].(bool)
	if !ok {
		return false, fmt.Errorf("filter query returned a %T result, expected a boolean", results[0])
	}

	return matched, nil
}

func (f *EventFilter) String() string {
	return f.rawQuery
}
