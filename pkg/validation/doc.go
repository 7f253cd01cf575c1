// Package validation compiles a form's field configurations into a single
// Validator. A validation pass coerces each visible field with its type rule,
// applies the required check and then the declared constraints in a fixed
// order (minLength, maxLength, min, max, pattern) where the first failure
// wins. Fields are evaluated independently so the error map is complete after
// one pass. Hidden fields are skipped entirely.
package validation
