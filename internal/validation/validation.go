// Package validation checks the shape of incoming payloads before any store is
// touched. Rules report at most one message per field, in the order the fields
// were checked.
package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

// FieldError is a single violated rule.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered field → message mapping.
type Errors []FieldError

// Add records msg for field unless the field already has a message.
func (e *Errors) Add(field, msg string) {
	if e.Has(field) {
		return
	}
	*e = append(*e, FieldError{Field: field, Message: msg})
}

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message recorded for field, or "".
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns nil when no rule was violated.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

// MarshalJSON encodes the mapping as an object keeping check order.
func (e Errors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fe.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Error is returned by services when a payload is rejected.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func checkEmail(errs *Errors, email string) {
	switch {
	case blank(email):
		errs.Add("email", "Email is required")
	case !IsEmail(strings.TrimSpace(email)):
		errs.Add("email", "Email is not valid")
	}
}

// Login validates a login payload.
func Login(email, password string) Errors {
	var errs Errors
	checkEmail(&errs, email)
	if blank(password) {
		errs.Add("password", "Password is required")
	}
	return errs
}

// Register validates a registration payload.
func Register(email, password, name string) Errors {
	var errs Errors
	checkEmail(&errs, email)

	switch {
	case blank(password):
		errs.Add("password", "Password is required")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		errs.Add("password", "Password must be at least 8 characters long")
	}

	switch {
	case blank(name):
		errs.Add("name", "Name is required")
	case utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength:
		errs.Add("name", "Name must be at least 2 characters long")
	}
	return errs
}

// Good validates a good's name and count. A nil count means it was not supplied.
func Good(name string, count *int) Errors {
	var errs Errors
	if blank(name) {
		errs.Add("name", "Name is required")
	}
	switch {
	case count == nil:
		errs.Add("count", "Count is required")
	case *count < 0:
		errs.Add("count", "Count must be zero or positive")
	}
	return errs
}
