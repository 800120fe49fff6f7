// Package binding connects input widgets to a form.Controller.
//
// Two styles coexist against the same controller. Controlled subscribes to
// a single typed path and re-renders only when that path changes; its
// errors are structured values. Input reads and writes the untyped get/set
// API on every keystroke, runs transforms such as Numeric before storing,
// clears the field error on edit and falls back to a generated
// "please enter <label>" message when an error carries no text.
package binding
