// Package screen renders the registration form in a terminal. A menu loop
// lets the user switch language, edit each field and submit; errors are
// shown inline under the fields they belong to.
package screen
