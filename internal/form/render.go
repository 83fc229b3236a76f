package form

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the practitioner cancels the form.
var ErrAborted = errors.New("form aborted")

// renderSettings configures Render.
type renderSettings struct {
	title      string
	accessible bool
	input      io.Reader
	output     io.Writer
}

// RenderOption configures Render.
type RenderOption func(*renderSettings)

// WithTitle sets the title shown above the fields.
func WithTitle(title string) RenderOption {
	return func(s *renderSettings) {
		s.title = title
	}
}

// WithAccessible switches to line-by-line prompts for screen readers and
// non-interactive terminals.
func WithAccessible(accessible bool) RenderOption {
	return func(s *renderSettings) {
		s.accessible = accessible
	}
}

// WithIO sets the terminal streams.
func WithIO(input io.Reader, output io.Writer) RenderOption {
	return func(s *renderSettings) {
		s.input = input
		s.output = output
	}
}

// binding connects one huh field to its backing variable.
type binding struct {
	field Field
	str   *string
	list  *[]string
	flag  *bool
}

// Render shows fields as one terminal form and stores the answers in v.
// Existing values in v (or field defaults) pre-fill the widgets.
func Render(ctx context.Context, fields []Field, v *Values, opts ...RenderOption) error {
	if len(fields) == 0 {
		return nil
	}
	settings := &renderSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	v.SetDefaults(fields)

	bindings := make([]*binding, 0, len(fields))
	huhFields := make([]huh.Field, 0, len(fields)+1)
	if settings.title != "" {
		huhFields = append(huhFields, huh.NewNote().Title(settings.title))
	}
	for _, f := range fields {
		b := &binding{field: f}
		huhFields = append(huhFields, b.widget(v))
		bindings = append(bindings, b)
	}

	form := huh.NewForm(huh.NewGroup(huhFields...)).
		WithShowHelp(true).
		WithShowErrors(true).
		WithAccessible(settings.accessible)
	if settings.input != nil {
		form = form.WithInput(settings.input)
	}
	if settings.output != nil {
		form = form.WithOutput(settings.output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}

	for _, b := range bindings {
		b.store(v)
	}
	return nil
}

// widget builds the huh field for b, backed by a copy of the current value.
func (b *binding) widget(v *Values) huh.Field {
	f := b.field
	switch f.Kind {
	case KindConfirm:
		value := v.Bools[f.Key]
		b.flag = &value
		return huh.NewConfirm().
			Key(f.Key).
			Title(f.Label).
			Description(f.Help).
			Value(b.flag).
			Validate(func(answer bool) error { return f.Check(strconv.FormatBool(answer)) })

	case KindSelect:
		value := v.Strings[f.Key]
		b.str = &value
		return huh.NewSelect[string]().
			Key(f.Key).
			Title(f.Label).
			Description(f.Help).
			Options(huh.NewOptions(f.Options...)...).
			Value(b.str).
			Validate(f.Check)

	case KindMultiSelect:
		value := append([]string(nil), v.Lists[f.Key]...)
		b.list = &value
		return huh.NewMultiSelect[string]().
			Key(f.Key).
			Title(f.Label).
			Description(f.Help).
			Options(huh.NewOptions(f.Options...)...).
			Value(b.list).
			Validate(f.CheckList)

	case KindText:
		value := v.Strings[f.Key]
		b.str = &value
		return huh.NewText().
			Key(f.Key).
			Title(f.Label).
			Description(f.Help).
			Value(b.str).
			Validate(f.Check)

	default:
		value := v.Strings[f.Key]
		b.str = &value
		return huh.NewInput().
			Key(f.Key).
			Title(f.Label).
			Description(f.Help).
			Value(b.str).
			Validate(f.Check)
	}
}

// store copies the widget's answer back into v.
func (b *binding) store(v *Values) {
	switch {
	case b.flag != nil:
		v.Bools[b.field.Key] = *b.flag
	case b.list != nil:
		v.Lists[b.field.Key] = *b.list
	case b.str != nil:
		v.Strings[b.field.Key] = *b.str
	}
}
