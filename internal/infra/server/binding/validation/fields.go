package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"
	"gopkg.in/go-playground/validator.v9"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

func SetUpValidators() {
	log.Info().Msg("Setting up custom validators")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := RegisterAll(v); err != nil {
			log.Fatal().Err(err).Msg("Failed to set up hex validators")
		}
	}
}

// RegisterAll registers the hex encoding validators on v
func RegisterAll(v *validator.Validate) error {
	if err := v.RegisterValidation(HexHashValidatorTag, HexHashValidator); err != nil {
		return err
	}
	if err := v.RegisterValidation(HexPublicKeyValidatorTag, HexPublicKeyValidator); err != nil {
		return err
	}
	return v.RegisterValidation(HexSignatureValidatorTag, HexSignatureValidator)
}

var HexHashValidatorTag = "hexHash"
var HexHashValidator validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := crypto.HashFromHex(s)
		return err == nil
	}
	return true
}

var HexPublicKeyValidatorTag = "hexPublicKey"
var HexPublicKeyValidator validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := crypto.PublicKeyFromHex(s)
		return err == nil
	}
	return true
}

var HexSignatureValidatorTag = "hexSignature"
var HexSignatureValidator validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := crypto.SignatureFromHex(s)
		return err == nil
	}
	return true
}
