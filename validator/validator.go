package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/fork"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// validateFelt accepts hex or decimal field elements
func validateFelt(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := felt.FromString[felt.Felt](s)
	return err == nil
}

// validateAddress accepts felts inside the contract address range
func validateAddress(fl validator.FieldLevel) bool {
	switch a := fl.Field().Interface().(type) {
	case string:
		_, err := starknet.ParseAddress(a)
		return err == nil
	case felt.Address:
		return a.Validate() == nil
	default:
		return false
	}
}

func validateBlockID(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := fork.ParseBlockID(s)
	return err == nil
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("felt", validateFelt); err != nil {
			panic("failed to register validation: " + err.Error())
		}
		if err := v.RegisterValidation("address", validateAddress); err != nil {
			panic("failed to register validation: " + err.Error())
		}
		if err := v.RegisterValidation("blockid", validateBlockID); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if f, ok := field.Interface().(felt.Felt); ok {
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{})
	})
	return v
}
