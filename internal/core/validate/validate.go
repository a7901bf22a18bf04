// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
)

// Description validates a task description is non-empty after trimming whitespace.
func Description(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}

// DescriptionField returns a criterio validator for task descriptions.
func DescriptionField(field, desc string) error {
	return criterio.Run(field, desc, Description)
}

// ParseTaskID parses a decimal task ID. Signs, whitespace and values that do
// not fit in 32 bits are rejected.
func ParseTaskID(text string) (uint32, error) {
	if text == "" {
		return 0, fmt.Errorf("task id is required")
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid task id %q: must be a non-negative integer", text)
		}
	}

	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: out of range", text)
	}
	return uint32(n), nil
}
