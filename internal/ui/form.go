package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/frame/internal/validate"
)

// formField is one labelled input. key matches the validate.FieldErrors key
// of the field so errors land next to the right input.
type formField struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder string, secret bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 36
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return formField{key: key, label: label, input: in}
}

// form is a vertical stack of inputs with per-field errors and one
// form-level message line.
type form struct {
	title   string
	fields  []formField
	focus   int
	errs    validate.FieldErrors
	message string
	busy    bool
}

func newForm(title string, fields ...formField) form {
	f := form{title: title, fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	i = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
}

func (f form) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return fld.input.Value()
		}
	}
	return ""
}

func (f *form) setValue(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(v)
		}
	}
}

// setError shows err on the form. Field errors go next to their inputs,
// anything else becomes the form message.
func (f *form) setError(err error) {
	f.busy = false
	if err == nil {
		f.errs = nil
		f.message = ""
		return
	}
	if fields := validate.Fields(err); fields != nil {
		f.errs = fields
		f.message = ""
		return
	}
	f.errs = nil
	f.message = err.Error()
}

// update routes a key to the focused input. submitted is true when enter
// was pressed on the last field.
func (f form) update(msg tea.Msg, keys keyMap) (form, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && !f.busy {
		switch {
		case key.Matches(km, keys.NextField):
			f.setFocus(f.focus + 1)
			return f, nil, false
		case key.Matches(km, keys.PrevField):
			f.setFocus(f.focus - 1)
			return f, nil, false
		case key.Matches(km, keys.Confirm):
			if f.focus < len(f.fields)-1 {
				f.setFocus(f.focus + 1)
				return f, nil, false
			}
			return f, nil, true
		}
	}
	if len(f.fields) == 0 {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

func (f form) view(styles Styles) string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(styles.AccentText.Bold(true).Render(f.title))
		b.WriteString("\n\n")
	}
	for i, fld := range f.fields {
		label := styles.Label
		if i == f.focus {
			label = styles.FocusedLabel
		}
		b.WriteString(label.Render(fld.label))
		b.WriteString(fld.input.View())
		b.WriteString("\n")
		if msg, ok := f.errs[fld.key]; ok {
			b.WriteString(styles.Label.Render(""))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}
	switch {
	case f.busy:
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Working..."))
	case f.message != "":
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.message))
	}
	return b.String()
}
