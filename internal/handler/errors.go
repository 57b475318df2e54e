package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stemsplitter/tracker/internal/model"
	"github.com/stemsplitter/tracker/pkg/response"
)

// writeError maps the tracker error taxonomy onto response envelopes
func writeError(c *fiber.Ctx, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return response.ValidationError(c, verr.Error(), nil)
	}

	var serr *model.SubmissionError
	if errors.As(err, &serr) {
		return response.SubmissionError(c, serr.Error())
	}

	return response.ServiceError(c, err.Error())
}

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
