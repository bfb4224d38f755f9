package generation

import (
	"strings"
	"unicode/utf8"
)

const (
	maxProductNameLen       = 100
	maxProductDetailsLen    = 1000
	maxKeywordsLen          = 200
	maxExtraInstructionsLen = 500
)

// Validate checks the raw submission before any provider work. It reports
// every violated field at once, keyed by field name; an empty map means the
// payload is acceptable.
func Validate(p Payload) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.ProductName) == "" {
		errs["product_name"] = "Product name is required"
	} else if utf8.RuneCountInString(p.ProductName) > maxProductNameLen {
		errs["product_name"] = "Product name must be under 100 characters"
	}
	if utf8.RuneCountInString(p.ProductDetails) > maxProductDetailsLen {
		errs["product_details"] = "Product details must be under 1000 characters"
	}
	if utf8.RuneCountInString(p.Keywords) > maxKeywordsLen {
		errs["keywords"] = "Keywords must be under 200 characters"
	}
	if utf8.RuneCountInString(p.ExtraInstructions) > maxExtraInstructionsLen {
		errs["extra_instructions"] = "Extra instructions must be under 500 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
