package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// ColumnType represents expected column schema
type ColumnType struct {
	Name     string
	DataType string
}

// TableSchema represents expected table structure
type TableSchema struct {
	Name    string
	Columns []ColumnType
}

// SchemaGuard validates database schema matches expectations
type SchemaGuard struct {
	db *sql.DB
}

// NewSchemaGuard creates a new schema guard
func NewSchemaGuard(db *sql.DB) *SchemaGuard {
	return &SchemaGuard{db: db}
}

// ValidateTable validates a table's schema against the expectation. Missing
// columns and type mismatches are reported together.
func (sg *SchemaGuard) ValidateTable(schema TableSchema) error {
	query := `
		SELECT COLUMN_NAME, DATA_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		AND TABLE_NAME = ?
	`

	rows, err := sg.db.Query(query, schema.Name)
	if err != nil {
		return fmt.Errorf("failed to query table schema for %s: %w", schema.Name, err)
	}
	defer rows.Close()

	actual := make(map[string]string)
	for rows.Next() {
		var colName, dataType string
		if err := rows.Scan(&colName, &dataType); err != nil {
			return fmt.Errorf("failed to scan column info: %w", err)
		}
		actual[strings.ToLower(colName)] = strings.ToLower(dataType)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read table schema for %s: %w", schema.Name, err)
	}
	if len(actual) == 0 {
		return fmt.Errorf("table %s does not exist", schema.Name)
	}

	var problems []string
	for _, col := range schema.Columns {
		dataType, ok := actual[strings.ToLower(col.Name)]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing column %s.%s", schema.Name, col.Name))
			continue
		}
		if col.DataType != "" && dataType != strings.ToLower(col.DataType) {
			problems = append(problems, fmt.Sprintf("column %s.%s has type %s, expected %s",
				schema.Name, col.Name, dataType, col.DataType))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
