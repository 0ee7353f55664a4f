package handler

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// fieldFailed reports whether a bind error concerns the given field, either
// as a validation failure or as a JSON type mismatch.
func fieldFailed(err error, structField, jsonField string) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == structField {
				return true
			}
		}
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field == jsonField
	}
	return false
}

// validationMessage flattens a bind error into a readable message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Field() + " failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
	}
	return msg
}
