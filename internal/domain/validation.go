package domain

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

func init() {
	// Report fields by their form names so messages map back onto inputs.
	validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validatorInstance.RegisterValidation("safepath", validateSafePath)
	_ = validatorInstance.RegisterValidation("money", validateMoney)
}

// Validator exposes the shared instance so the HTTP layer validates with the same rules.
func Validator() *validator.Validate {
	return validatorInstance
}

// validateSafePath ensures the path doesn't contain any directory traversal attempts.
func validateSafePath(fl validator.FieldLevel) bool {
	path := fl.Field().String()

	if strings.Contains(path, "..") ||
		strings.Contains(path, "~") ||
		strings.HasPrefix(path, "/") ||
		strings.Contains(path, "\\") {
		return false
	}

	// Catches paths like "images/./../x" that survive the substring checks.
	return path == filepath.Clean(path)
}

// validateMoney accepts a non-negative decimal with at most two fractional digits.
func validateMoney(fl validator.FieldLevel) bool {
	_, err := ParsePrice(fl.Field().String())
	return err == nil
}

// ParsePrice parses a user-supplied price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, ErrValidation
	}
	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return decimal.Zero, ErrValidation
	}
	return price, nil
}

// MinorUnits converts a price to cents (or the currency's minor unit).
func MinorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
