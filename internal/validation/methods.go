package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator collects field errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError keeps the first message recorded for a field.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// CPF checks a Brazilian individual taxpayer number, punctuation allowed.
func (v *Validator) CPF(field, document string) {
	v.Check(ValidCPF(document), field, "must be a valid CPF")
}

// AmountRange checks min <= amount <= max. A zero max disables the upper bound.
func (v *Validator) AmountRange(field string, amount, min, max decimal.Decimal) {
	if !amount.IsPositive() {
		v.AddError(field, "must be greater than zero")
		return
	}
	if amount.LessThan(min) {
		v.AddError(field, fmt.Sprintf("must be at least %s", min.StringFixed(2)))
		return
	}
	if max.IsPositive() && amount.GreaterThan(max) {
		v.AddError(field, fmt.Sprintf("must not be more than %s", max.StringFixed(2)))
	}
}

// Error flattens the collected messages, sorted by field.
func (v *Validator) Error() string {
	if v.Valid() {
		return ""
	}
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v.Errors[f])
	}
	return strings.Join(parts, "; ")
}
