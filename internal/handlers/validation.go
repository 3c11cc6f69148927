package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/thereayou/eventnet/internal/models"
)

// RegisterValidators добавляет правила перечислений к валидатору gin
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}

	rules := map[string]validator.Func{
		"event_type": func(fl validator.FieldLevel) bool {
			_, err := models.ParseEventType(fl.Field().String())
			return err == nil
		},
		"event_format": func(fl validator.FieldLevel) bool {
			_, err := models.ParseEventFormat(fl.Field().String())
			return err == nil
		},
		"connection_outcome": func(fl validator.FieldLevel) bool {
			s := models.ConnectionStatus(fl.Field().String())
			return s == models.ConnectionAccepted || s == models.ConnectionRejected
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
