package binding

// Keyboard hints which input mode a widget should present.
type Keyboard string

const (
	KeyboardDefault Keyboard = "default"
	KeyboardNumeric Keyboard = "numeric"
	KeyboardEmail   Keyboard = "email-address"
	KeyboardPhone   Keyboard = "phone-pad"
)

// Props are the presentation attributes shared by both binding styles.
type Props struct {
	Label       string
	Placeholder string
	Required    bool
	Secure      bool
	Multiline   bool
	Keyboard    Keyboard
}

// View is what a widget renders: the current value, the message to show
// under it and the chrome flags.
type View struct {
	Label       string
	Placeholder string
	Value       string
	Error       string
	HasError    bool
	Required    bool
	Secure      bool
	Multiline   bool
	Keyboard    Keyboard
}

func (p Props) view() View {
	keyboard := p.Keyboard
	if keyboard == "" {
		keyboard = KeyboardDefault
	}
	return View{
		Label:       p.Label,
		Placeholder: p.Placeholder,
		Required:    p.Required,
		Secure:      p.Secure,
		Multiline:   p.Multiline,
		Keyboard:    keyboard,
	}
}
