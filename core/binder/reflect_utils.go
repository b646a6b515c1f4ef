package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

func bindToStruct(v any, tagName string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		names := fieldNames(rt.Field(i), tagName)
		if names == nil {
			continue
		}

		for _, name := range names {
			vals, ok := values[name]
			if !ok || len(vals) == 0 {
				continue
			}
			if err := setFieldValue(field, vals[0]); err != nil {
				return fmt.Errorf("%w: field %s: %v", bindErr, rt.Field(i).Name, err)
			}
			break
		}
	}
	return nil
}

// fieldNames returns the candidate parameter names of a field, or nil to
// skip it. Untagged fields bind by lowercased field name.
func fieldNames(field reflect.StructField, tagName string) []string {
	tag := field.Tag.Get(tagName)
	switch tag {
	case "-":
		return nil
	case "":
		return []string{strings.ToLower(field.Name)}
	}
	return strings.Split(tag, ",")
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
