// Package form owns the state of a schema-validated form. A Controller is
// seeded with every schema default, mutated through SetValue/ClearError, and
// validated atomically by ValidateAndSubmit. Observers subscribe to a single
// dotted path and are only told about changes to that path; typed Path and
// Binding values add a compile-time check on the value type on top of the
// untyped get/set API.
package form
