package feeders

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/golobby/cast"
)

// EnvFeeder reads environment variables named <PREFIX>_<env tag>. Slice
// fields take comma-separated values.
type EnvFeeder struct {
	Prefix string
}

// NewEnvFeeder creates an EnvFeeder with the given prefix.
func NewEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix}
}

// Feed sets the tagged fields of structure whose variable is set and
// non-empty.
func (f EnvFeeder) Feed(structure any) error {
	if f.Prefix == "" {
		return ErrEnvEmptyPrefix
	}
	inputType := reflect.TypeOf(structure)
	if inputType == nil || inputType.Kind() != reflect.Ptr || inputType.Elem().Kind() != reflect.Struct {
		return ErrEnvInvalidStructure
	}
	return processStructFields(reflect.ValueOf(structure).Elem(), strings.ToUpper(f.Prefix))
}

func processStructFields(rv reflect.Value, prefix string) error {
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rv.Type().Field(i)

		if field.Kind() == reflect.Struct {
			if err := processStructFields(field, prefix); err != nil {
				return err
			}
			continue
		}
		envTag, ok := fieldType.Tag.Lookup("env")
		if !ok {
			continue
		}
		if err := setFieldFromEnv(field, prefix+"_"+strings.ToUpper(envTag)); err != nil {
			return fmt.Errorf("error in field '%s': %w", fieldType.Name, err)
		}
	}
	return nil
}

func setFieldFromEnv(field reflect.Value, envName string) error {
	envValue := os.Getenv(envName)
	if envValue == "" {
		return nil
	}
	if !field.CanSet() {
		return ErrEnvFieldCannotBeSet
	}
	if field.Kind() != reflect.Slice {
		value, err := convert(envValue, field.Type())
		if err != nil {
			return err
		}
		field.Set(value)
		return nil
	}

	parts := strings.Split(envValue, ",")
	slice := reflect.MakeSlice(field.Type(), 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := convert(part, field.Type().Elem())
		if err != nil {
			return err
		}
		slice = reflect.Append(slice, value)
	}
	field.Set(slice)
	return nil
}

func convert(s string, t reflect.Type) (reflect.Value, error) {
	v, err := cast.FromType(s, t)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot convert value to type %v: %w", t, err)
	}
	return reflect.ValueOf(v).Convert(t), nil
}
