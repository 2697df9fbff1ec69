package handlers

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators installs the custom binding tags on gin's validator:
//
//	iso4217     a currency code of the reference catalog
//	isodate     a YYYY-MM-DD date
//	unitsystem  a unit system of the registry, any case
//
// Field errors are reported under their json or form names.
func registerValidators(catalog portssvc.CatalogSvc, units portssvc.UnitSvc) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(tagName)

	if err := v.RegisterValidation("iso4217", func(fl validator.FieldLevel) bool {
		_, err := catalog.GetCurrency(context.Background(), fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("unitsystem", func(fl validator.FieldLevel) bool {
		_, err := units.GetSystem(context.Background(), fl.Field().String())
		return err == nil
	})
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// fieldPath drops the request type and embedded structs from a validator
// namespace: "ConvertRatesRequest.BatchRequest.batch_id" -> "batch_id".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return strings.ReplaceAll(path, "BatchRequest.", "")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "iso4217":
		return fmt.Sprintf("unknown currency %q", fe.Value())
	case "isodate":
		return "must be a YYYY-MM-DD date"
	case "unitsystem":
		return fmt.Sprintf("unknown unit system %q", fe.Value())
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of " + fe.Param()
	case "len":
		return "must be " + fe.Param() + " characters long"
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return "failed the " + fe.Tag() + " check"
}
