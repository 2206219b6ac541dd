// Package importer loads CSV payloads into the allow-listed tables. Imports
// are all-or-nothing: any validation failure leaves the table untouched.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// importTables is the set of tables CSV payloads may target. The platform
// series is excluded; it is produced by the seeder, not uploads.
var importTables = map[string]struct{}{
	"users":       {},
	"products":    {},
	"orders":      {},
	"order_items": {},
}

const insertBatchSize = 500

// Result reports a completed import.
type Result struct {
	Table        string `json:"table"`
	RowsImported int    `json:"rows_imported"`
}

// Service loads CSV content into the store.
type Service interface {
	Import(ctx context.Context, table, csvContent string) (*Result, error)
}

type service struct {
	client *db.Client
	rowCap int
}

// NewService builds the importer. rowCap bounds how many data rows a single
// upload may carry.
func NewService(client *db.Client, cfg config.ImportConfig) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	rowCap := cfg.RowCap
	if rowCap <= 0 {
		rowCap = 5000
	}
	return &service{client: client, rowCap: rowCap}, nil
}

// Import validates and appends the CSV rows to table inside one transaction.
func (s *service) Import(ctx context.Context, table, csvContent string) (*Result, error) {
	table = strings.TrimSpace(strings.ToLower(table))
	if _, ok := importTables[table]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("table %q does not accept imports", table))
	}

	header, records, err := parseCSV(csvContent, s.rowCap)
	if err != nil {
		return nil, err
	}

	known, err := s.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if err := validateColumns(table, header, known); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = coerce(record[i])
			}
		}
		rows = append(rows, row)
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Table(table).CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("inserting rows into %s: %v", table, err))
	}

	return &Result{Table: table, RowsImported: len(rows)}, nil
}

// parseCSV reads the payload into a trimmed header and its data records.
func parseCSV(content string, rowCap int) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "csv content is empty")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("parsing csv header: %v", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("parsing csv row %d: %v", len(records)+2, err))
		}
		records = append(records, record)
		if len(records) > rowCap {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv exceeds the %d row cap", rowCap))
		}
	}
	if len(records) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "csv has no data rows")
	}
	return header, records, nil
}

// tableColumns reads the live column set so uploads cannot invent columns.
func (s *service) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	columnTypes, err := s.client.DB().WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err,
			fmt.Sprintf("describing %s: %v", table, err))
	}
	known := make(map[string]struct{}, len(columnTypes))
	for _, col := range columnTypes {
		known[strings.ToLower(col.Name())] = struct{}{}
	}
	return known, nil
}

func validateColumns(table string, header []string, known map[string]struct{}) error {
	var unknown error
	seen := make(map[string]struct{}, len(header))
	for _, column := range header {
		if column == "" {
			unknown = multierr.Append(unknown, fmt.Errorf("empty column name"))
			continue
		}
		seen[column] = struct{}{}
		if _, ok := known[column]; !ok {
			unknown = multierr.Append(unknown, fmt.Errorf("unknown column %q", column))
		}
	}
	if unknown != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, unknown,
			fmt.Sprintf("csv columns do not match %s: %v", table, unknown))
	}
	if table == "users" {
		if _, ok := seen["user_id"]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "users imports must include a user_id column")
		}
	}
	return nil
}

// coerce maps a CSV cell onto a storable value. Integers and floats keep
// their numeric affinity; empty cells become NULL.
func coerce(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}
