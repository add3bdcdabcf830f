package setup

import "fmt"

type ConfigValueMissingError struct {
	Field string
}

func (e ConfigValueMissingError) Error() string {
	return fmt.Sprintf("config value %q not set", e.Field)
}

func NewConfigValueMissingError(field string) *ConfigValueMissingError {
	return &ConfigValueMissingError{
		Field: field,
	}
}
