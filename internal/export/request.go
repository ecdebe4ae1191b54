package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request is a single user export action.
type Request struct {
	Targets          []string    `json:"targets" validate:"required,min=1,unique,dive,required"`
	Destination      Destination `json:"destination" validate:"required"`
	FilenameOverride string      `json:"filenameOverride,omitempty" validate:"omitempty,max=200"`
}

var validate = validator.New()

// Validate checks the request shape. It does not look at job status.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	if strings.ContainsAny(r.FilenameOverride, `/\`) || strings.Contains(r.FilenameOverride, "..") {
		return fmt.Errorf("%w: filename must not contain path separators", ErrValidation)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch {
		case e.Field() == "Targets" && (e.Tag() == "required" || e.Tag() == "min"):
			msgs = append(msgs, "no jobs selected")
		case e.Field() == "Targets" && e.Tag() == "unique":
			msgs = append(msgs, "job selected more than once")
		case strings.HasPrefix(e.Field(), "Targets["):
			msgs = append(msgs, "empty job id in selection")
		case e.Field() == "Destination":
			msgs = append(msgs, "destination is required")
		case e.Field() == "FilenameOverride":
			msgs = append(msgs, "filename is too long")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
