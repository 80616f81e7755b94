package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Column maps one entity field to its column. DataType uses the names
// reported by information_schema so the mapping can be checked against a
// live database.
type Column struct {
	Field      string
	Name       string
	DataType   string
	Length     int
	NotNull    bool
	PrimaryKey bool
	Identity   bool
	Unique     bool
	Default    string
}

// Table is the explicit mapping between an entity and its table.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnInfo is a column as introspected from the database.
type ColumnInfo struct {
	Name      string
	DataType  string
	MaxLength int
	Nullable  bool
}

var auditColumns = []Column{
	{Field: "CreatedDate", Name: "created_date", DataType: "timestamp with time zone", NotNull: true, Default: "NOW()"},
	{Field: "ModifiedDate", Name: "modified_date", DataType: "timestamp with time zone", NotNull: true, Default: "NOW()"},
}

var PostsTable = Table{
	Name: "posts",
	Columns: append([]Column{
		{Field: "ID", Name: "id", DataType: "bigint", NotNull: true, PrimaryKey: true, Identity: true},
		{Field: "Title", Name: "title", DataType: "character varying", Length: 500, NotNull: true},
		{Field: "Content", Name: "content", DataType: "text", NotNull: true},
		{Field: "Author", Name: "author", DataType: "character varying", Length: 255},
	}, auditColumns...),
}

var UsersTable = Table{
	Name: "users",
	Columns: append([]Column{
		{Field: "ID", Name: "id", DataType: "bigint", NotNull: true, PrimaryKey: true, Identity: true},
		{Field: "Name", Name: "name", DataType: "character varying", Length: 255, NotNull: true},
		{Field: "Email", Name: "email", DataType: "character varying", Length: 255, NotNull: true, Unique: true},
		{Field: "Picture", Name: "picture", DataType: "character varying", Length: 1024},
		{Field: "Role", Name: "role", DataType: "character varying", Length: 20, NotNull: true},
	}, auditColumns...),
}

// Column returns the mapping for an entity field name.
func (t Table) Column(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames lists the column names in mapping order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Check verifies the mapping itself: a name, a single primary key and no
// duplicated fields or columns.
func (t Table) Check() error {
	if t.Name == "" {
		return errors.New("table mapping without a name")
	}

	var errs []error
	fields := make(map[string]bool, len(t.Columns))
	names := make(map[string]bool, len(t.Columns))
	primaryKeys := 0

	for _, c := range t.Columns {
		if c.Field == "" || c.Name == "" || c.DataType == "" {
			errs = append(errs, fmt.Errorf("%s: incomplete column mapping %+v", t.Name, c))
			continue
		}
		if fields[c.Field] {
			errs = append(errs, fmt.Errorf("%s: field %s mapped twice", t.Name, c.Field))
		}
		if names[c.Name] {
			errs = append(errs, fmt.Errorf("%s: column %s mapped twice", t.Name, c.Name))
		}
		fields[c.Field] = true
		names[c.Name] = true
		if c.PrimaryKey {
			primaryKeys++
		}
	}

	if primaryKeys != 1 {
		errs = append(errs, fmt.Errorf("%s: expected exactly one primary key, found %d", t.Name, primaryKeys))
	}

	return errors.Join(errs...)
}

// CreateStatement renders the DDL for the mapping.
func (t Table) CreateStatement() string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := c.Name + " " + c.sqlType()
		if c.Identity {
			def += " GENERATED BY DEFAULT AS IDENTITY"
		}
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		} else if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		if c.Default != "" {
			def += " DEFAULT " + c.Default
		}
		defs = append(defs, def)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

func (c Column) sqlType() string {
	switch c.DataType {
	case "character varying":
		return fmt.Sprintf("VARCHAR(%d)", c.Length)
	case "timestamp with time zone":
		return "TIMESTAMPTZ"
	}
	return strings.ToUpper(c.DataType)
}

// Validate compares the mapping with the introspected columns and reports
// every difference at once.
func (t Table) Validate(existing []ColumnInfo) error {
	byName := make(map[string]ColumnInfo, len(existing))
	for _, info := range existing {
		byName[info.Name] = info
	}

	var errs []error
	for _, c := range t.Columns {
		info, ok := byName[c.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s.%s: column missing", t.Name, c.Name))
			continue
		}
		if info.DataType != c.DataType {
			errs = append(errs, fmt.Errorf("%s.%s: type %s, mapping expects %s", t.Name, c.Name, info.DataType, c.DataType))
		}
		if c.Length > 0 && info.MaxLength != c.Length {
			errs = append(errs, fmt.Errorf("%s.%s: length %d, mapping expects %d", t.Name, c.Name, info.MaxLength, c.Length))
		}
		if c.NotNull && info.Nullable {
			errs = append(errs, fmt.Errorf("%s.%s: column is nullable, mapping expects NOT NULL", t.Name, c.Name))
		}
	}

	return errors.Join(errs...)
}

// EnsureSchema creates the mapped tables when absent and then checks the
// live columns against each mapping.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables ...Table) error {
	for _, table := range tables {
		if err := table.Check(); err != nil {
			return fmt.Errorf("invalid mapping: %w", err)
		}

		if _, err := pool.Exec(ctx, table.CreateStatement()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}

		existing, err := introspect(ctx, pool, table.Name)
		if err != nil {
			return err
		}

		if err := table.Validate(existing); err != nil {
			return fmt.Errorf("schema drift: %w", err)
		}
	}

	return nil
}

func introspect(ctx context.Context, pool *pgxpool.Pool, table string) ([]ColumnInfo, error) {
	query := `
		SELECT
			column_name,
			data_type,
			COALESCE(character_maximum_length, 0),
			is_nullable = 'YES'
		FROM
			information_schema.columns
		WHERE
			table_schema = current_schema() AND table_name = $1`

	rows, err := pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var info ColumnInfo
		var maxLength int32
		if err := rows.Scan(&info.Name, &info.DataType, &maxLength, &info.Nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		info.MaxLength = int(maxLength)
		columns = append(columns, info)
	}

	return columns, rows.Err()
}
