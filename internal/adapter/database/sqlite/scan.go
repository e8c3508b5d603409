package sqlite

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scanner maps sql.Rows columns onto struct fields by name, covering the
// sqlite driver's loose typing (TEXT uuids, string timestamps, integer
// booleans).
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}

		return sql.ErrNoRows
	}

	return s.scanCurrentRow(rows, destValue.Elem())
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	for rows.Next() {
		elemValue := reflect.New(elemType).Elem()

		if err := s.scanCurrentRow(rows, elemValue); err != nil {
			return err
		}

		sliceValue.Set(reflect.Append(sliceValue, elemValue))
	}

	return rows.Err()
}

func (s *Scanner) scanCurrentRow(rows *sql.Rows, destElem reflect.Value) error {
	destType := destElem.Type()

	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	scanArgs := make([]interface{}, len(columns))

	for i := range scanArgs {
		scanArgs[i] = new(interface{})
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	for i, colName := range columns {
		val := *(scanArgs[i].(*interface{}))

		field, ok := s.findStructField(destType, colName)

		if !ok {
			continue
		}

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val); err != nil {
			return fmt.Errorf("column %s: %w", colName, err)
		}
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) (reflect.StructField, bool) {
	target := strings.ReplaceAll(strings.ToLower(colName), "_", "")

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if strings.ToLower(field.Name) == target {
			return field, true
		}
	}

	return reflect.StructField{}, false
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}) error {
	if !field.CanSet() || val == nil {
		return nil
	}

	fieldType := field.Type()

	// Nullable columns land in pointer fields.
	if fieldType.Kind() == reflect.Ptr {
		elem := reflect.New(fieldType.Elem())

		if err := s.setFieldValue(elem.Elem(), val); err != nil {
			return err
		}

		field.Set(elem)

		return nil
	}

	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	switch fieldType {
	case reflect.TypeOf(uuid.UUID{}):
		str, ok := val.(string)

		if !ok {
			return fmt.Errorf("cannot scan %T into uuid.UUID", val)
		}

		parsed, err := uuid.Parse(str)

		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(parsed))

		return nil
	case reflect.TypeOf(time.Time{}):
		str, ok := val.(string)

		if !ok {
			return fmt.Errorf("cannot scan %T into time.Time", val)
		}

		parsed, err := parseSQLiteTime(str)

		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(parsed))

		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		if str, ok := val.(string); ok {
			field.SetString(str)
			return nil
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		if n, ok := val.(int64); ok {
			field.SetInt(n)
			return nil
		}
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
			return nil
		case int64:
			field.SetBool(v != 0)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := val.(float64); ok {
			field.SetFloat(f)
			return nil
		}
	}

	return fmt.Errorf("cannot scan %T into %s", val, fieldType)
}

func parseSQLiteTime(str string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", str)
}
