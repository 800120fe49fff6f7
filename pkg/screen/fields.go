package screen

import (
	"context"
	"strings"

	"github.com/goliatone/go-regform/pkg/binding"
	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/i18n"
	"github.com/goliatone/go-regform/pkg/registration"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindSecret
	kindDirect
	kindToggle
	kindChoice
)

// entry is one widget on the screen. Exactly one of text, flag and input is
// set depending on kind.
type entry struct {
	path      string
	section   i18n.Key
	labelKey  i18n.Key
	holderKey i18n.Key
	kind      fieldKind
	required  bool
	options   []string

	text  *binding.Controlled[string]
	flag  *binding.Controlled[bool]
	input *binding.Input
}

// mount binds every widget of the registration screen to ctrl. Account and
// personal fields use subscriptions, the phone number and the comparison
// field write through the direct API.
func (s *Screen) mount(ctrl *form.Controller) ([]*entry, error) {
	var entries []*entry
	controlled := func(path form.Path[string], section, holder i18n.Key, kind fieldKind, props binding.Props) error {
		c, err := binding.NewControlled(ctrl, path, props)
		if err != nil {
			return err
		}
		entries = append(entries, &entry{
			path:      path.String(),
			section:   section,
			holderKey: holder,
			kind:      kind,
			required:  props.Required,
			text:      c,
		})
		return nil
	}

	if err := controlled(registration.Email, i18n.SectionAccount, i18n.FieldEmailPlaceholder, kindText,
		binding.Props{Required: true, Keyboard: binding.KeyboardEmail}); err != nil {
		return nil, err
	}
	if err := controlled(registration.Password, i18n.SectionAccount, i18n.FieldPasswordHolder, kindSecret,
		binding.Props{Required: true, Secure: true}); err != nil {
		return nil, err
	}
	if err := controlled(registration.FirstName, i18n.SectionPersonal, i18n.FieldFirstNameHolder, kindText,
		binding.Props{Required: true}); err != nil {
		return nil, err
	}
	if err := controlled(registration.LastName, i18n.SectionPersonal, i18n.FieldLastNameHolder, kindText,
		binding.Props{Required: true}); err != nil {
		return nil, err
	}

	phone := registration.Phone.String()
	entries = append(entries, &entry{
		path:      phone,
		section:   i18n.SectionPersonal,
		holderKey: i18n.FieldPhoneHolder,
		kind:      kindDirect,
		required:  true,
		input: binding.NewInput(ctrl, phone, binding.Props{Required: true, Keyboard: binding.KeyboardPhone},
			binding.AsNumber(), binding.WithFallbackMessage(s.fallback(ctrl, phone, ""))),
	})

	firstName := registration.FirstName.String()
	entries = append(entries, &entry{
		path:      firstName,
		section:   i18n.SectionPersonal,
		labelKey:  i18n.FieldCompare,
		holderKey: i18n.FieldFirstNameHolder,
		kind:      kindDirect,
		required:  true,
		input: binding.NewInput(ctrl, firstName, binding.Props{Required: true},
			binding.WithTransforms(binding.StripMarkup()),
			binding.WithFallbackMessage(s.fallback(ctrl, firstName, i18n.FieldCompare))),
	})

	newsletters, err := binding.NewControlled(ctrl, registration.ReceiveNewsletters, binding.Props{})
	if err != nil {
		return nil, err
	}
	entries = append(entries, &entry{
		path:    registration.ReceiveNewsletters.String(),
		section: i18n.SectionPrefs,
		kind:    kindToggle,
		flag:    newsletters,
	})

	if err := controlled(registration.Theme, i18n.SectionPrefs, "", kindChoice, binding.Props{}); err != nil {
		return nil, err
	}
	themeEntry := entries[len(entries)-1]
	if decl, ok := ctrl.Schema().Field(themeEntry.path); ok {
		themeEntry.options = append([]string(nil), decl.Enum...)
	}
	return entries, nil
}

// fallback builds the localized "please enter" message for direct inputs.
// The label is resolved on every call so it follows locale changes.
func (s *Screen) fallback(ctrl *form.Controller, path string, labelKey i18n.Key) func(string) string {
	return func(string) string {
		label := ctrl.Label(path)
		if labelKey != "" {
			label = s.tr.T(labelKey)
		}
		return s.tr.T(i18n.PleaseEnter, i18n.With("label", label))
	}
}

func (s *Screen) label(ctrl *form.Controller, e *entry) string {
	if e.labelKey != "" {
		return s.tr.T(e.labelKey)
	}
	return ctrl.Label(e.path)
}

func (e *entry) value() string {
	switch e.kind {
	case kindDirect:
		return e.input.Value()
	case kindToggle:
		if e.flag.Value() {
			return "[x]"
		}
		return "[ ]"
	case kindSecret:
		return strings.Repeat("*", len([]rune(e.text.Value())))
	default:
		return e.text.Value()
	}
}

func (e *entry) errorMessage() string {
	switch e.kind {
	case kindDirect:
		return e.input.ErrorMessage()
	case kindToggle:
		return e.flag.View().Error
	default:
		return e.text.View().Error
	}
}

func (e *entry) close() {
	switch {
	case e.text != nil:
		e.text.Close()
	case e.flag != nil:
		e.flag.Close()
	}
}

// edit prompts for a new value and routes it through the entry's binding.
func (s *Screen) edit(ctx context.Context, ctrl *form.Controller, e *entry) error {
	label := s.label(ctrl, e)
	var help string
	if e.holderKey != "" {
		help = s.tr.T(e.holderKey)
	}

	var err error
	switch e.kind {
	case kindText:
		var resp string
		resp, err = s.driver.Input(ctx, InputConfig{Message: label, Default: e.text.Value(), Help: help})
		if err == nil {
			err = e.text.Change(resp)
		}
	case kindSecret:
		var resp string
		// an empty answer clears the secret like any other text field
		resp, err = s.driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err == nil {
			err = e.text.Change(resp)
		}
	case kindDirect:
		var resp string
		resp, err = s.driver.Input(ctx, InputConfig{Message: label, Default: e.input.Value(), Help: help})
		if err == nil {
			err = e.input.Change(resp)
		}
	case kindToggle:
		var resp bool
		resp, err = s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: e.flag.Value(), Help: help})
		if err == nil {
			err = e.flag.Change(resp)
		}
	case kindChoice:
		var idx int
		idx, err = s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      e.options,
			DefaultIndex: indexOf(e.options, e.text.Value()),
			Help:         help,
		})
		if err == nil && idx >= 0 && idx < len(e.options) {
			err = e.text.Change(e.options[idx])
		}
	}
	if err != nil {
		return err
	}
	return ctrl.Touch(e.path)
}
