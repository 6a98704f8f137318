package searchscope

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestToSimpleSQL(t *testing.T) {
	search, err := New([]any{"name", "email"})
	require.NoError(t, err)

	cond, err := search.ToSimpleSQL("x")
	require.NoError(t, err)
	require.Equal(t, "name = ? OR email = ?", cond.SQL)
	require.Equal(t, []any{"x", "x"}, cond.Vars)
}

func TestToSimpleSQLSkipsBindlessFields(t *testing.T) {
	search, err := New([]any{
		map[string]any{"name": "contains"},
		map[string]any{"deleted_at": "null"},
		"email",
	})
	require.NoError(t, err)

	cond, err := search.ToSimpleSQL("bob")
	require.NoError(t, err)
	require.Equal(t, "name LIKE ? OR deleted_at IS NULL OR email = ?", cond.SQL)
	require.Equal(t, []any{"%bob%", "bob"}, cond.Vars)
}

func TestToSimpleSQLBlankTerm(t *testing.T) {
	search, err := New([]any{"name"})
	require.NoError(t, err)

	for _, term := range []string{"", "   ", "\t\n"} {
		cond, err := search.ToSimpleSQL(term)
		require.NoError(t, err)
		require.Nil(t, cond)
	}
}

func TestToSimpleSQLEmptyFieldSet(t *testing.T) {
	search, err := New([]any{})
	require.NoError(t, err)

	_, err = search.ToSimpleSQL("x")
	require.Error(t, err)

	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
}

func TestToFieldSQL(t *testing.T) {
	search, err := New([]any{
		"first_name",
		map[string]any{"last_name": "begins_with"},
	})
	require.NoError(t, err)

	cond, err := search.ToFieldSQL(map[string]Term{
		"first_name": {Value: "Bob"},
	})
	require.NoError(t, err)
	require.Equal(t, "first_name = ?", cond.SQL)
	require.Equal(t, []any{"Bob"}, cond.Vars)

	cond, err = search.ToFieldSQL(map[string]Term{
		"first_name": {Value: "Bob"},
		"last_name":  {Value: "Sm"},
	})
	require.NoError(t, err)
	require.Equal(t, "first_name = ? AND last_name LIKE ?", cond.SQL)
	require.Equal(t, []any{"Bob", "Sm%"}, cond.Vars)
}

func TestToFieldSQLKeepsFieldSetOrder(t *testing.T) {
	search, err := New([]any{"a", "b", "c"})
	require.NoError(t, err)

	cond, err := search.ToFieldSQL(map[string]Term{
		"c": {Value: "3"},
		"a": {Value: "1"},
	})
	require.NoError(t, err)
	require.Equal(t, "a = ? AND c = ?", cond.SQL)
	require.Equal(t, []any{"1", "3"}, cond.Vars)
}

func TestToFieldSQLIgnoresUnknownAndBlank(t *testing.T) {
	search, err := New([]any{"first_name", "last_name"})
	require.NoError(t, err)

	cond, err := search.ToFieldSQL(map[string]Term{
		"first_name": {Value: "Bob"},
		"last_name":  {Value: "   "},
		"nickname":   {Value: "bobby"},
	})
	require.NoError(t, err)
	require.Equal(t, "first_name = ?", cond.SQL)
	require.Equal(t, []any{"Bob"}, cond.Vars)

	cond, err = search.ToFieldSQL(map[string]Term{
		"nickname": {Value: "bobby"},
	})
	require.NoError(t, err)
	require.Nil(t, cond)
}

func TestToSQLDispatch(t *testing.T) {
	search, err := New([]any{"name", "email"})
	require.NoError(t, err)

	cond, err := search.ToSQL("x", ModeSimple)
	require.NoError(t, err)
	require.Equal(t, "name = ? OR email = ?", cond.SQL)

	cond, err = search.ToSQL(map[string]Term{"email": {Value: "a@b.c"}}, ModeField)
	require.NoError(t, err)
	require.Equal(t, "email = ?", cond.SQL)
	require.Equal(t, []any{"a@b.c"}, cond.Vars)

	_, err = search.ToSQL("x", Mode("fuzzy"))
	require.Error(t, err)
}

func TestToSQLBlankParams(t *testing.T) {
	search, err := New([]any{"name"})
	require.NoError(t, err)

	for _, mode := range []Mode{ModeSimple, ModeField} {
		for _, params := range []any{nil, "", "   ", map[string]Term{}, map[string]string{}, map[string]any{}} {
			cond, err := search.ToSQL(params, mode)
			require.NoError(t, err)
			require.Nil(t, cond)
		}
	}
}

func TestToSQLParamShapes(t *testing.T) {
	search, err := New([]any{"name"})
	require.NoError(t, err)

	cond, err := search.ToSQL(map[string]string{"name": "Bob"}, ModeField)
	require.NoError(t, err)
	require.Equal(t, []any{"Bob"}, cond.Vars)

	// per-field value records, as decoded from a request body
	cond, err = search.ToSQL(map[string]any{"name": map[string]any{"value": "Bob"}}, ModeField)
	require.NoError(t, err)
	require.Equal(t, []any{"Bob"}, cond.Vars)

	_, err = search.ToSQL(map[string]any{"name": "Bob"}, ModeField)
	require.Error(t, err)

	_, err = search.ToSQL(42, ModeSimple)
	require.Error(t, err)
}

func TestToSQLIdempotent(t *testing.T) {
	search, err := New([]any{"name", map[string]any{"email": "contains"}})
	require.NoError(t, err)

	first, err := search.ToSQL("x", ModeSimple)
	require.NoError(t, err)
	second, err := search.ToSQL("x", ModeSimple)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestToSQLDateTypecast(t *testing.T) {
	search, err := New([]any{
		map[string]any{"posted_at": map[string]any{"pattern": "greater_than", "type": "date"}},
	})
	require.NoError(t, err)

	cond, err := search.ToFieldSQL(map[string]Term{"posted_at": {Value: "2020-01-15"}})
	require.NoError(t, err)
	require.Equal(t, "posted_at > ?", cond.SQL)
	require.Equal(t, []any{time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)}, cond.Vars)

	_, err = search.ToFieldSQL(map[string]Term{"posted_at": {Value: "not a date"}})
	require.Error(t, err)

	var badValue *BadValueError
	require.True(t, errors.As(err, &badValue))
}

func TestWithLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	search, err := New(
		[]any{map[string]any{"posted_at": map[string]any{"type": "datetime"}}},
		WithLocation(tokyo),
	)
	require.NoError(t, err)

	cond, err := search.ToFieldSQL(map[string]Term{"posted_at": {Value: "2020-01-15 10:30:00"}})
	require.NoError(t, err)
	require.Equal(t, []any{time.Date(2020, 1, 15, 10, 30, 0, 0, tokyo)}, cond.Vars)
}
