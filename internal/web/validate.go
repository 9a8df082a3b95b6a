package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/willemschots/openidstore/internal/errorz"
)

// validate is the package-level validator, safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct validates v using its validate tags. Failing fields
// are reported as an errorz.InvalidInput of errorz.Keyed errors.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	invalid := make(errorz.InvalidInput, 0, len(ve))
	for _, fe := range ve {
		invalid = append(invalid, errorz.Keyed{
			Key: fe.Field(),
			Err: fmt.Errorf("failed %q validation", fe.Tag()),
		})
	}

	return invalid
}
