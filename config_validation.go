package markgen

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/golobby/cast"
	"golang.org/x/mod/module"
)

const (
	// Struct tag keys
	tagDefault = "default"
	tagDesc    = "desc"
)

// ProcessConfigDefaults sets every zero field of cfg that carries a
// `default:"value"` tag. Slice defaults are comma separated.
func ProcessConfigDefaults(cfg any) error {
	if cfg == nil {
		return ErrConfigNil
	}
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrConfigNotPointer
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrConfigNotStruct
	}
	return processStructDefaults(v)
}

func processStructDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := processStructDefaults(field); err != nil {
				return err
			}
			continue
		}
		def, ok := fieldType.Tag.Lookup(tagDefault)
		if !ok || !field.IsZero() {
			continue
		}
		if err := setDefaultValue(field, def); err != nil {
			return fmt.Errorf("failed to set default for %s: %w", fieldType.Name, err)
		}
	}
	return nil
}

func setDefaultValue(field reflect.Value, def string) error {
	if field.Kind() != reflect.Slice {
		value, err := cast.FromType(def, field.Type())
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(value).Convert(field.Type()))
		return nil
	}

	parts := strings.Split(def, ",")
	slice := reflect.MakeSlice(field.Type(), 0, len(parts))
	for _, part := range parts {
		value, err := cast.FromType(strings.TrimSpace(part), field.Type().Elem())
		if err != nil {
			return err
		}
		slice = reflect.Append(slice, reflect.ValueOf(value).Convert(field.Type().Elem()))
	}
	field.Set(slice)
	return nil
}

// Describe lists the documented fields of Config as name, default and
// description triples, in declaration order.
func Describe() [][3]string {
	t := reflect.TypeOf(Config{})
	out := make([][3]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("yaml")
		if name == "" {
			name = f.Name
		}
		out = append(out, [3]string{name, f.Tag.Get(tagDefault), f.Tag.Get(tagDesc)})
	}
	return out
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Prefix == "" || !token.IsIdentifier(strings.ReplaceAll(c.Prefix, "-", "_")) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPrefix, c.Prefix))
	}
	if !strings.HasSuffix(c.Suffix, ".go") || strings.HasSuffix(c.Suffix, "_test.go") || strings.ContainsAny(c.Suffix, `/\`) {
		errs = append(errs, fmt.Errorf("%w: %q must end in .go and not name a test file", ErrInvalidSuffix, c.Suffix))
	}

	for _, p := range []struct{ name, path string }{
		{"inject_path", c.InjectPath},
		{"fsm_path", c.FSMPath},
		{"plug_path", c.PlugPath},
	} {
		if err := module.CheckImportPath(p.path); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidImportPath, p.name, err))
		}
	}

	if err := checkQualified(c.ScopeBase); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidScopeBase, err))
	}

	for _, typ := range c.AllowedTypes {
		if strings.TrimSpace(typ) == "" {
			errs = append(errs, fmt.Errorf("%w: empty entry", ErrInvalidAllowedType))
			continue
		}
		if strings.Contains(typ, ".") && !strings.ContainsAny(typ, "[]() ") {
			if err := checkQualified(strings.TrimLeft(typ, "*")); err != nil {
				errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidAllowedType, err))
			}
		}
	}
	return errors.Join(errs...)
}

// checkQualified accepts import/path.Name.
func checkQualified(qname string) error {
	i := strings.LastIndex(qname, ".")
	if i <= 0 {
		return fmt.Errorf("%q is not a qualified type name", qname)
	}
	if !token.IsIdentifier(qname[i+1:]) {
		return fmt.Errorf("%q does not end in a type name", qname)
	}
	return module.CheckImportPath(qname[:i])
}
