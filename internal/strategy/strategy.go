package strategy

import (
	"sort"

	"github.com/samber/lo"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

// ScriptPhase identifies when a raw SQL script runs relative to the
// anonymization pass.
type ScriptPhase string

const (
	ScriptBefore ScriptPhase = "before"
	ScriptAfter  ScriptPhase = "after"
)

// TableStrategyType tags the members of the closed TableStrategy set.
type TableStrategyType int

const (
	TableStrategyTruncate TableStrategyType = iota
	TableStrategyUpdateColumns
)

func (t TableStrategyType) String() string {
	switch t {
	case TableStrategyTruncate:
		return "truncate"
	case TableStrategyUpdateColumns:
		return "update_columns"
	default:
		return "unknown"
	}
}

// ColumnStrategyType tags the members of the closed ColumnStrategy set.
type ColumnStrategyType int

const (
	ColumnStrategyEmpty ColumnStrategyType = iota
	ColumnStrategyUniqueLogin
	ColumnStrategyUniqueEmail
	ColumnStrategyFakeUpdate
)

func (t ColumnStrategyType) String() string {
	switch t {
	case ColumnStrategyEmpty:
		return "empty"
	case ColumnStrategyUniqueLogin:
		return "unique_login"
	case ColumnStrategyUniqueEmail:
		return "unique_email"
	case ColumnStrategyFakeUpdate:
		return "fake_update"
	default:
		return "unknown"
	}
}

// TableStrategy is one resolved whole-table treatment. The set of
// implementations is closed; downstream consumers may type-switch
// exhaustively.
type TableStrategy interface {
	Type() TableStrategyType
}

// TruncateTable removes every row of the table.
type TruncateTable struct{}

func (*TruncateTable) Type() TableStrategyType { return TableStrategyTruncate }

// UpdateColumnsTable rewrites the mapped columns in place. An empty column
// map is a valid no-op.
type UpdateColumnsTable struct {
	Columns map[string]ColumnStrategy
}

func (*UpdateColumnsTable) Type() TableStrategyType { return TableStrategyUpdateColumns }

// ColumnNames returns the mapped column names in sorted order.
func (t *UpdateColumnsTable) ColumnNames() []string {
	names := lo.Keys(t.Columns)
	sort.Strings(names)
	return names
}

// ColumnStrategy is one resolved single-column treatment. Every variant
// carries an optional row filter, handed to the database verbatim.
type ColumnStrategy interface {
	Type() ColumnStrategyType
	RowFilter() string
}

// EmptyColumn blanks the column out.
type EmptyColumn struct {
	Where string
}

func (*EmptyColumn) Type() ColumnStrategyType { return ColumnStrategyEmpty }
func (c *EmptyColumn) RowFilter() string      { return c.Where }

// UniqueLoginColumn rewrites the column with per-row unique login-style
// values.
type UniqueLoginColumn struct {
	Where string
}

func (*UniqueLoginColumn) Type() ColumnStrategyType { return ColumnStrategyUniqueLogin }
func (c *UniqueLoginColumn) RowFilter() string      { return c.Where }

// UniqueEmailColumn rewrites the column with per-row unique email addresses.
type UniqueEmailColumn struct {
	Where string
}

func (*UniqueEmailColumn) Type() ColumnStrategyType { return ColumnStrategyUniqueEmail }
func (c *UniqueEmailColumn) RowFilter() string      { return c.Where }

// FakeColumn rewrites the column with values drawn from a resolved fake data
// category.
type FakeColumn struct {
	Category *fake.Category
	Where    string
}

func (*FakeColumn) Type() ColumnStrategyType { return ColumnStrategyFakeUpdate }
func (c *FakeColumn) RowFilter() string      { return c.Where }

// DatabaseStrategy is a fully resolved anonymization plan: per-table
// strategies plus the raw scripts bracketing the run.
type DatabaseStrategy struct {
	Tables  map[string]TableStrategy
	Scripts map[ScriptPhase][]string
}

// TableNames returns the planned table names in sorted order.
func (s *DatabaseStrategy) TableNames() []string {
	names := lo.Keys(s.Tables)
	sort.Strings(names)
	return names
}

// FakeCategories returns the distinct fake categories referenced anywhere in
// the plan, sorted by name. The engine shapes the seed table from this set.
func (s *DatabaseStrategy) FakeCategories() []*fake.Category {
	byName := make(map[string]*fake.Category)
	for _, ts := range s.Tables {
		uc, ok := ts.(*UpdateColumnsTable)
		if !ok {
			continue
		}
		for _, cs := range uc.Columns {
			if fc, ok := cs.(*FakeColumn); ok {
				byName[fc.Category.Name] = fc.Category
			}
		}
	}

	names := lo.Keys(byName)
	sort.Strings(names)

	categories := make([]*fake.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, byName[name])
	}
	return categories
}
