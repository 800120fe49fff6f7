package i18n

// Key identifies a translatable string. The set is closed: catalogs reject
// keys that are not declared here.
type Key string

const (
	Welcome        Key = "welcome"
	Language       Key = "language"
	ChangeLanguage Key = "changeLanguage"
	Hello          Key = "hello"
	Settings       Key = "settings"
	Home           Key = "home"

	CurrentLanguage Key = "currentLanguage"
	Register        Key = "register"
	PleaseEnter     Key = "pleaseEnter"

	SectionAccount  Key = "sections.account"
	SectionPersonal Key = "sections.personal"
	SectionPrefs    Key = "sections.preferences"

	FieldEmail              Key = "fields.email"
	FieldEmailPlaceholder   Key = "fields.email.placeholder"
	FieldPassword           Key = "fields.password"
	FieldPasswordHolder     Key = "fields.password.placeholder"
	FieldFirstName          Key = "fields.firstName"
	FieldFirstNameHolder    Key = "fields.firstName.placeholder"
	FieldLastName           Key = "fields.lastName"
	FieldLastNameHolder     Key = "fields.lastName.placeholder"
	FieldPhone              Key = "fields.phone"
	FieldPhoneHolder        Key = "fields.phone.placeholder"
	FieldReceiveNewsletters Key = "fields.receiveNewsletters"
	FieldTheme              Key = "fields.theme"
	FieldCompare            Key = "fields.compare"

	ValidationEmailRequired       Key = "validation.email.required"
	ValidationEmailInvalid        Key = "validation.email.invalid"
	ValidationPasswordRequired    Key = "validation.password.required"
	ValidationPasswordMinLength   Key = "validation.password.minLength"
	ValidationFirstNameRequired   Key = "validation.firstName.required"
	ValidationLastNameRequired    Key = "validation.lastName.required"
	ValidationPhoneRequired       Key = "validation.phone.required"
	ValidationPhonePattern        Key = "validation.phone.pattern"
	ValidationEmailHasPassword    Key = "validation.email.containsPassword"
	ValidationLastNameMatchesName Key = "validation.lastName.sameAsFirstName"

	MenuPrompt    Key = "menu.prompt"
	MenuToggle    Key = "menu.toggleLanguage"
	MenuEdit      Key = "menu.edit"
	MenuSubmit    Key = "menu.submit"
	MenuQuit      Key = "menu.quit"
	SubmitSuccess Key = "submit.success"
	SubmitFailed  Key = "submit.failed"
)

var allKeys = []Key{
	Welcome, Language, ChangeLanguage, Hello, Settings, Home,
	CurrentLanguage, Register, PleaseEnter,
	SectionAccount, SectionPersonal, SectionPrefs,
	FieldEmail, FieldEmailPlaceholder, FieldPassword, FieldPasswordHolder,
	FieldFirstName, FieldFirstNameHolder, FieldLastName, FieldLastNameHolder,
	FieldPhone, FieldPhoneHolder, FieldReceiveNewsletters, FieldTheme, FieldCompare,
	ValidationEmailRequired, ValidationEmailInvalid,
	ValidationPasswordRequired, ValidationPasswordMinLength,
	ValidationFirstNameRequired, ValidationLastNameRequired,
	ValidationPhoneRequired, ValidationPhonePattern,
	ValidationEmailHasPassword, ValidationLastNameMatchesName,
	MenuPrompt, MenuToggle, MenuEdit, MenuSubmit, MenuQuit,
	SubmitSuccess, SubmitFailed,
}

// Keys returns every declared key.
func Keys() []Key {
	return append([]Key(nil), allKeys...)
}

// Known reports whether key belongs to the closed set.
func Known(key string) bool {
	_, ok := keyIndex[Key(key)]
	return ok
}

var keyIndex = func() map[Key]struct{} {
	out := make(map[Key]struct{}, len(allKeys))
	for _, key := range allKeys {
		out[key] = struct{}{}
	}
	return out
}()
