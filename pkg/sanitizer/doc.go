// Package sanitizer normalizes guest-supplied contact and booking fields
// before validation and storage.
//
// All functions are idempotent and handle invalid input by returning an
// empty string rather than an error. Normalization includes:
//   - Phone numbers: E.164 format (+[country][number])
//   - Emails: lowercase, trimmed
//   - Names and free text: collapsed whitespace, trimmed
package sanitizer
