package screen

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/goliatone/go-regform/pkg/registration"
)

// Theme styles the summary printed between prompts.
type Theme struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Required lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultTheme marks required fields and errors in red.
func DefaultTheme() Theme {
	red := lipgloss.Color("#E53935")
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Section:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#333333")),
		Required: lipgloss.NewStyle().Foreground(red),
		Error:    lipgloss.NewStyle().Foreground(red),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32")),
		Muted:    lipgloss.NewStyle().Faint(true),
	}
}

// PlainTheme renders text without any styling.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:    plain,
		Section:  plain,
		Required: plain,
		Error:    plain,
		Success:  plain,
		Muted:    plain,
	}
}

// Option configures a Screen.
type Option func(*Screen)

// WithPromptDriver overrides the interactive survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Screen) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme replaces the default styles.
func WithTheme(theme Theme) Option {
	return func(s *Screen) {
		s.theme = theme
	}
}

// WithLogger routes screen diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Screen) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReceipt overrides the receipt id generator.
func WithReceipt(fn func() string) Option {
	return func(s *Screen) {
		if fn != nil {
			s.receipt = fn
		}
	}
}

// WithSubmitHandler is called with every accepted registration before the
// screen closes.
func WithSubmitHandler(fn func(registration.Registration) error) Option {
	return func(s *Screen) {
		s.onSubmit = fn
	}
}

func newReceipt() string {
	return uuid.NewString()
}
