package analytics

import (
	"context"
	"fmt"
	"sort"

	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
)

// sampleTables is the allow-list for ad-hoc row sampling and CSV import
// targets.
var sampleTables = map[string]struct{}{
	"users":       {},
	"products":    {},
	"orders":      {},
	"order_items": {},
}

// SampleTableAllowed reports whether ad-hoc sampling is permitted for the
// table.
func SampleTableAllowed(table string) bool {
	_, ok := sampleTables[table]
	return ok
}

// CustomQuery screens the statement through the gate and executes the
// approved rewrite. Rejections and execution failures both surface to the
// caller; nothing here is substituted with fallback data.
func (s *service) CustomQuery(ctx context.Context, query string) ([]map[string]any, error) {
	approved, err := s.gate.Inspect(query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeQueryRejected, err, err.Error())
	}

	rows := []map[string]any{}
	if err := s.db.WithContext(ctx).Raw(approved).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return rows, nil
}

// DatabaseInfo reports row counts and column metadata for every stored
// table, keyed by table name.
func (s *service) DatabaseInfo(ctx context.Context) (map[string]TableInfo, error) {
	migrator := s.db.WithContext(ctx).Migrator()
	tables, err := migrator.GetTables()
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	sort.Strings(tables)

	info := make(map[string]TableInfo, len(tables))
	for _, table := range tables {
		var count int64
		if err := s.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("counting rows in %s: %w", table, err)
		}

		columnTypes, err := migrator.ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("describing %s: %w", table, err)
		}
		columns := make([]ColumnInfo, 0, len(columnTypes))
		for _, col := range columnTypes {
			columns = append(columns, ColumnInfo{
				Name: col.Name(),
				Type: col.DatabaseTypeName(),
			})
		}
		info[table] = TableInfo{RowCount: count, Columns: columns}
	}
	return info, nil
}

// SampleRows returns up to limit rows from an allow-listed table.
func (s *service) SampleRows(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	if !SampleTableAllowed(table) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("table %q is not allowed", table))
	}
	if limit <= 0 || limit > 100 {
		limit = 5
	}

	rows := []map[string]any{}
	if err := s.db.WithContext(ctx).Table(table).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sampling %s: %w", table, err)
	}
	return rows, nil
}
