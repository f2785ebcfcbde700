package model

import "strings"

// Record is the domain model for a todo entry.
// Only Completed changes after creation.
type Record struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Age       string `json:"age" yaml:"age"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Field names reported by ValidationError.
const (
	FieldName = "name"
	FieldAge  = "age"
)

// ValidationError rejects a draft before it reaches the store.
// Message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// Draft checks a name/age pair and returns the trimmed values.
// Name is checked before age.
func Draft(name, age string) (string, string, error) {
	name = strings.TrimSpace(name)
	age = strings.TrimSpace(age)
	if name == "" {
		return "", "", &ValidationError{Field: FieldName, Message: "⚠️ Please Enter a Name"}
	}
	if age == "" {
		return "", "", &ValidationError{Field: FieldAge, Message: "⚠️ Please Enter an Age"}
	}
	return name, age, nil
}

// Stats counts completed and pending records.
func Stats(records []Record) (done, pending int) {
	for _, r := range records {
		if r.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
