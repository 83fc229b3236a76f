package form

import (
	"strconv"
	"strings"
)

// Values holds the answers collected for a form, keyed by Field.Key.
type Values struct {
	Strings map[string]string
	Lists   map[string][]string
	Bools   map[string]bool
}

// NewValues creates an empty Values.
func NewValues() *Values {
	return &Values{
		Strings: make(map[string]string),
		Lists:   make(map[string][]string),
		Bools:   make(map[string]bool),
	}
}

// SetDefaults fills every field that has no value yet with its default.
func (v *Values) SetDefaults(fields []Field) {
	for _, f := range fields {
		switch f.Kind {
		case KindMultiSelect:
			if _, ok := v.Lists[f.Key]; !ok && f.Default != "" {
				v.Lists[f.Key] = splitList(f.Default)
			}
		case KindConfirm:
			if _, ok := v.Bools[f.Key]; !ok {
				v.Bools[f.Key], _ = strconv.ParseBool(f.Default)
			}
		default:
			if _, ok := v.Strings[f.Key]; !ok && f.Default != "" {
				v.Strings[f.Key] = f.Default
			}
		}
	}
}

// Check runs Field.Check over every field and returns the first failure
// keyed by field.
func (v *Values) Check(fields []Field) (string, error) {
	for _, f := range fields {
		var err error
		switch f.Kind {
		case KindMultiSelect:
			err = f.CheckList(v.Lists[f.Key])
		case KindConfirm:
			err = f.Check(strconv.FormatBool(v.Bools[f.Key]))
		default:
			err = f.Check(v.Strings[f.Key])
		}
		if err != nil {
			return f.Key, err
		}
	}
	return "", nil
}

func (v *Values) str(key string) string {
	return strings.TrimSpace(v.Strings[key])
}

// splitList splits a comma-separated list and drops empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
