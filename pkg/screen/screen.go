package screen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/i18n"
	"github.com/goliatone/go-regform/pkg/locale"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/schema"
)

// Screen is the terminal registration form. Form state lives for the
// duration of one Run call.
type Screen struct {
	store    *locale.Store
	tr       *i18n.Translator
	schema   *schema.Schema
	driver   PromptDriver
	theme    Theme
	logger   *slog.Logger
	receipt  func() string
	onSubmit func(registration.Registration) error
}

// Result is returned for an accepted registration.
type Result struct {
	Registration registration.Registration
	Receipt      string
}

// New builds a screen around the locale store and translator owned by the
// caller. Validation messages and labels are resolved through tr.
func New(store *locale.Store, tr *i18n.Translator, opts ...Option) (*Screen, error) {
	if store == nil {
		return nil, errors.New("screen: locale store is required")
	}
	if tr == nil {
		return nil, errors.New("screen: translator is required")
	}

	s := &Screen{
		store:   store,
		tr:      tr,
		driver:  NewSurveyDriver(nil),
		theme:   DefaultTheme(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		receipt: newReceipt,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.schema == nil {
		compiled, err := registration.NewSchema(
			schema.WithMessageTranslator(tr),
			schema.WithLogger(s.logger),
		)
		if err != nil {
			return nil, err
		}
		s.schema = compiled
	}
	return s, nil
}

// WithSchema overrides the registration schema. It must declare every
// registration path.
func WithSchema(compiled *schema.Schema) Option {
	return func(s *Screen) {
		if compiled != nil {
			s.schema = compiled
		}
	}
}

// Run shows the screen until a registration is accepted or the user quits.
// Quitting returns a nil Result and no error.
func (s *Screen) Run(ctx context.Context) (*Result, error) {
	if s.driver == nil {
		return nil, ErrNoDriver
	}

	ctrl, err := form.New(s.schema,
		form.WithLogger(s.logger),
		form.WithLocale(func() string { return s.store.Current().String() }),
	)
	if err != nil {
		return nil, err
	}
	entries, err := s.mount(ctrl)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, e := range entries {
			e.close()
		}
	}()

	toggleIdx := 0
	submitIdx := len(entries) + 1
	quitIdx := len(entries) + 2

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.driver.Info(ctx, s.render(ctrl, entries)); err != nil {
			return nil, err
		}

		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:      s.tr.T(i18n.MenuPrompt),
			Options:      s.menu(ctrl, entries),
			DefaultIndex: -1,
		})
		if err != nil {
			return nil, err
		}

		switch {
		case choice == toggleIdx:
			s.toggle(ctx, ctrl)
		case choice > toggleIdx && choice < submitIdx:
			if err := s.edit(ctx, ctrl, entries[choice-1]); err != nil {
				if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
					return nil, err
				}
				s.logger.Warn("field edit failed", "path", entries[choice-1].path, "error", err)
			}
		case choice == submitIdx:
			res, err := s.submit(ctx, ctrl)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		case choice == quitIdx:
			return nil, nil
		}
	}
}

func (s *Screen) menu(ctrl *form.Controller, entries []*entry) []string {
	out := make([]string, 0, len(entries)+3)
	out = append(out, s.tr.T(i18n.MenuToggle, i18n.With("locale", s.store.Current().String())))
	for _, e := range entries {
		out = append(out, s.tr.T(i18n.MenuEdit, i18n.With("label", s.label(ctrl, e))))
	}
	return append(out, s.tr.T(i18n.MenuSubmit), s.tr.T(i18n.MenuQuit))
}

// toggle flips the locale. Errors already on screen are re-validated so they
// switch language with the labels.
func (s *Screen) toggle(ctx context.Context, ctrl *form.Controller) {
	next := s.store.Toggle(ctx)
	s.logger.Debug("locale toggled", "locale", next.String())
	if !ctrl.Submitted() {
		return
	}
	for path := range ctrl.Errors() {
		if _, err := ctrl.Trigger(path); err != nil {
			s.logger.Warn("revalidate after locale change", "path", path, "error", err)
		}
	}
}

func (s *Screen) submit(ctx context.Context, ctrl *form.Controller) (*Result, error) {
	var (
		reg       registration.Registration
		decodeErr error
	)
	ok := ctrl.ValidateAndSubmit(func(values schema.Values) {
		reg, decodeErr = registration.Decode(values)
	})
	if !ok {
		lines := []string{s.theme.Error.Render(s.tr.T(i18n.SubmitFailed))}
		for _, msg := range ctrl.FormErrors() {
			lines = append(lines, s.theme.Error.Render(msg))
		}
		return nil, s.driver.Info(ctx, strings.Join(lines, "\n"))
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	if s.onSubmit != nil {
		if err := s.onSubmit(reg); err != nil {
			s.logger.Warn("submit handler rejected registration", "error", err)
			msg := s.theme.Error.Render(s.tr.T(i18n.SubmitFailed)) + "\n" + s.theme.Error.Render(err.Error())
			return nil, s.driver.Info(ctx, msg)
		}
	}

	res := &Result{Registration: reg, Receipt: s.receipt()}
	payload, err := json.MarshalIndent(reg.Masked(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("screen: encode payload: %w", err)
	}
	s.logger.Info("registration submitted", "receipt", res.Receipt)

	msg := s.theme.Success.Render(s.tr.T(i18n.SubmitSuccess, i18n.With("id", res.Receipt))) + "\n" + string(payload)
	if err := s.driver.Info(ctx, msg); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Screen) render(ctrl *form.Controller, entries []*entry) string {
	var b strings.Builder
	b.WriteString(s.theme.Title.Render(s.tr.T(i18n.Welcome)))
	b.WriteString("\n")
	b.WriteString(s.theme.Title.Render(s.tr.T(i18n.Register)))

	var section i18n.Key
	for _, e := range entries {
		if e.section != section {
			section = e.section
			b.WriteString("\n\n")
			b.WriteString(s.theme.Section.Render(s.tr.T(section)))
		}
		b.WriteString("\n  ")
		b.WriteString(s.fieldLine(ctrl, e))
		if msg := e.errorMessage(); msg != "" {
			b.WriteString("\n    ")
			b.WriteString(s.theme.Error.Render(msg))
		}
	}
	return b.String()
}

func (s *Screen) fieldLine(ctrl *form.Controller, e *entry) string {
	line := s.label(ctrl, e)
	if e.required {
		line += " " + s.theme.Required.Render("*")
	}
	value := e.value()
	if value == "" && e.holderKey != "" {
		value = s.theme.Muted.Render(s.tr.T(e.holderKey))
	}
	return line + ": " + value
}
