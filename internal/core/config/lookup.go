package config

import (
	"fmt"
	"reflect"
)

// Lookup returns the value of the field tagged env:"key", formatted as a string.
// Unset strings yield "".
func (s *Settings) Lookup(key string) string {
	if s == nil {
		return ""
	}
	v, ok := lookupField(reflect.ValueOf(s).Elem(), key)
	if !ok {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func lookupField(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Tag.Get("env") == key {
			return v.Field(i), true
		}
		if field.Type.Kind() == reflect.Struct {
			if found, ok := lookupField(v.Field(i), key); ok {
				return found, true
			}
		}
	}
	return reflect.Value{}, false
}
