package utils

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func DecodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// DecodeAndValidate décode le corps JSON puis applique les tags validate
func DecodeAndValidate(r *http.Request, dest interface{}) error {
	if err := DecodeJSON(r, dest); err != nil {
		return err
	}
	return validate.Struct(dest)
}

// Validate applique les tags validate d'une structure déjà remplie
func Validate(v interface{}) error {
	return validate.Struct(v)
}
