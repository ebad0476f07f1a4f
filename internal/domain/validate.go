package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func errNilRecord(kind string) error {
	return fmt.Errorf("%s cannot be nil", kind)
}

// validateRecord runs struct-tag validation and reports failing fields by name.
func validateRecord(kind, id string, record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	label := kind
	if id != "" {
		label = fmt.Sprintf("%s %q", kind, id)
	}
	return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message,
		fmt.Errorf("%s: %s", label, strings.Join(fields, ", ")))
}
