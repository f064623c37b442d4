package customers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func paramsValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("province", func(fl validator.FieldLevel) bool {
			return IsProvince(fl.Field().String())
		})
		_ = v.RegisterValidation("energykind", func(fl validator.FieldLevel) bool {
			return catalog.Kind(fl.Field().Int()).IsValid()
		})
		validate = v
	})
	return validate
}

func validateParams(p Params) error {
	if err := paramsValidator().Struct(p); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidCustomer, first.Field(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCustomer, err)
	}
	return nil
}
