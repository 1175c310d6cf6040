package strategy

import (
	"sort"

	"github.com/samber/lo"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

// Notation keywords. Reserved: they never resolve as fake category
// identifiers.
const (
	keywordTruncate    = "truncate"
	keywordEmpty       = "empty"
	keywordUniqueLogin = "unique_login"
	keywordUniqueEmail = "unique_email"
	keyType            = "type"
	keyColumns         = "columns"
	keyFakeType        = "fake_type"
	keyWhere           = "where"
	keyTables          = "tables"
	keyScripts         = "scripts"
	typeUpdateColumns  = "update_columns"
	typeFakeUpdate     = "fake_update"
)

// CategoryCatalog resolves fake category identifiers at parse time. Lookup
// failures abort the parse and are surfaced to the caller unchanged.
type CategoryCatalog interface {
	Category(name string) (*fake.Category, error)
}

// Parser compiles a decoded strategy document into a DatabaseStrategy.
// Resolution is fail-fast: the first entry that matches no notation stops
// the whole parse.
type Parser struct {
	catalog CategoryCatalog
}

func NewParser(catalog CategoryCatalog) *Parser {
	return &Parser{catalog: catalog}
}

// ParseConfig resolves the whole document. A document without a "tables"
// mapping is valid and yields an empty plan. Parsing mutates nothing, so the
// same document always compiles to the same plan.
func (p *Parser) ParseConfig(raw map[string]any) (*DatabaseStrategy, error) {
	tables := make(map[string]TableStrategy)

	if rawTables, ok := raw[keyTables]; ok {
		tableMap, ok := rawTables.(map[string]any)
		if !ok {
			return nil, NewUnknownTableStrategyError("", rawTables)
		}
		// Tables resolve in name order so a document with several bad
		// entries always reports the same one first.
		for _, name := range sortedKeys(tableMap) {
			ts, err := p.parseTable(name, tableMap[name])
			if err != nil {
				return nil, err
			}
			tables[name] = ts
		}
	}

	return &DatabaseStrategy{
		Tables:  tables,
		Scripts: extractScripts(raw),
	}, nil
}

func (p *Parser) parseTable(table string, raw any) (TableStrategy, error) {
	switch v := raw.(type) {
	case string:
		if v == keywordTruncate {
			return &TruncateTable{}, nil
		}
	case map[string]any:
		if t, ok := v[keyType]; ok {
			// Verbose notation: the discriminator alone decides, sibling
			// keys it does not use are ignored.
			switch t {
			case keywordTruncate:
				return &TruncateTable{}, nil
			case typeUpdateColumns:
				return p.parseColumns(table, v[keyColumns], raw)
			}
			return nil, NewUnknownTableStrategyError(table, raw)
		}
		if cols, ok := v[keyColumns]; ok {
			// Implicit notation: a "columns" mapping selects update_columns.
			return p.parseColumns(table, cols, raw)
		}
	}
	return nil, NewUnknownTableStrategyError(table, raw)
}

func (p *Parser) parseColumns(table string, rawColumns any, rawTable any) (TableStrategy, error) {
	colMap, ok := rawColumns.(map[string]any)
	if !ok {
		return nil, NewUnknownTableStrategyError(table, rawTable)
	}

	columns := make(map[string]ColumnStrategy, len(colMap))
	for _, name := range sortedKeys(colMap) {
		cs, err := p.parseColumn(table, name, colMap[name])
		if err != nil {
			return nil, err
		}
		columns[name] = cs
	}
	return &UpdateColumnsTable{Columns: columns}, nil
}

func (p *Parser) parseColumn(table, column string, raw any) (ColumnStrategy, error) {
	switch v := raw.(type) {
	case string:
		switch v {
		case keywordEmpty:
			return &EmptyColumn{}, nil
		case keywordUniqueLogin:
			return &UniqueLoginColumn{}, nil
		case keywordUniqueEmail:
			return &UniqueEmailColumn{}, nil
		}
		// Every other bare string is a fake category identifier.
		category, err := p.catalog.Category(v)
		if err != nil {
			return nil, err
		}
		return &FakeColumn{Category: category}, nil

	case map[string]any:
		t, ok := v[keyType]
		if !ok {
			break
		}
		where, err := rowFilter(table, column, v, raw)
		if err != nil {
			return nil, err
		}
		switch t {
		case keywordEmpty:
			return &EmptyColumn{Where: where}, nil
		case keywordUniqueLogin:
			return &UniqueLoginColumn{Where: where}, nil
		case keywordUniqueEmail:
			return &UniqueEmailColumn{Where: where}, nil
		case typeFakeUpdate:
			name, ok := v[keyFakeType].(string)
			if !ok {
				return nil, NewUnknownColumnStrategyError(table, column, raw)
			}
			category, err := p.catalog.Category(name)
			if err != nil {
				return nil, err
			}
			return &FakeColumn{Category: category, Where: where}, nil
		}
	}
	return nil, NewUnknownColumnStrategyError(table, column, raw)
}

// rowFilter reads the optional "where" filter. A present but non-string
// filter fails the column: silently dropping a row filter would widen a
// destructive update to the whole table.
func rowFilter(table, column string, obj map[string]any, raw any) (string, error) {
	w, ok := obj[keyWhere]
	if !ok {
		return "", nil
	}
	s, ok := w.(string)
	if !ok {
		return "", NewUnknownColumnStrategyError(table, column, raw)
	}
	return s, nil
}

// extractScripts reads the optional before/after statement lists. Statements
// are opaque SQL; shapes that are not lists of strings count as absent
// rather than failing the parse. Order within a phase is preserved exactly.
func extractScripts(raw map[string]any) map[ScriptPhase][]string {
	scripts := map[ScriptPhase][]string{
		ScriptBefore: {},
		ScriptAfter:  {},
	}

	obj, ok := raw[keyScripts].(map[string]any)
	if !ok {
		return scripts
	}
	for _, phase := range []ScriptPhase{ScriptBefore, ScriptAfter} {
		seq, ok := obj[string(phase)].([]any)
		if !ok {
			continue
		}
		for _, stmt := range seq {
			if s, ok := stmt.(string); ok {
				scripts[phase] = append(scripts[phase], s)
			}
		}
	}
	return scripts
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
