// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/deal-settlement/pkg/constants"
)

// ValidateOutputFormat checks that the requested settlement output format is
// one of the supported renderings (pretty table or CSV).
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
