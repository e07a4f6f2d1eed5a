package settings

import "fmt"

// ProviderNotFoundError is returned by mutations that reference a provider id
// absent from the provider list. Nothing is persisted in that case.
type ProviderNotFoundError struct {
	ID string
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("provider %q not found", e.ID)
}

// BaseURLNotEditableError is returned when a base URL edit targets a provider
// other than the custom one.
type BaseURLNotEditableError struct {
	Label string
}

func (e *BaseURLNotEditableError) Error() string {
	return fmt.Sprintf("provider %q does not allow editing the base URL", e.Label)
}

// DuplicateProviderError is returned when adding a provider whose id is
// already taken.
type DuplicateProviderError struct {
	ID string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("provider %q already exists", e.ID)
}
