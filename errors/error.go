package errors

import (
	"fmt"
)

// FileAlreadyExistsError occurs when a save operation targets a path which already exists
type FileAlreadyExistsError struct{ Path string }

// Error returns a textual representation of this FileAlreadyExistsError
func (e FileAlreadyExistsError) Error() string {
	return fmt.Sprintf("File %s already exists", e.Path)
}

// NoMoreElementsError occurs when Next is called on an exhausted Iterator
type NoMoreElementsError struct{}

// Error returns a textual representation of this NoMoreElementsError
func (e NoMoreElementsError) Error() string {
	return "No more elements"
}

// EmptyDatasetError occurs when a reduction is applied to a Dataset with too few elements for it to be defined
type EmptyDatasetError struct {
	Operation string
	Required  int // the minimum number of elements required, if greater than 1
}

// Error returns a textual representation of this EmptyDatasetError
func (e EmptyDatasetError) Error() string {
	if e.Required > 1 {
		return fmt.Sprintf("%s requires at least %d elements", e.Operation, e.Required)
	}
	return fmt.Sprintf("%s is undefined for an empty dataset", e.Operation)
}

// NotNumericError occurs when a numeric operation encounters an element which is not a number
type NotNumericError struct{ Value interface{} }

// Error returns a textual representation of this NotNumericError
func (e NotNumericError) Error() string {
	return fmt.Sprintf("Value %v (%T) is not numeric", e.Value, e.Value)
}

// NotAPairError occurs when a key-value operation encounters an element which is not a Pair
type NotAPairError struct{ Value interface{} }

// Error returns a textual representation of this NotAPairError
func (e NotAPairError) Error() string {
	return fmt.Sprintf("Element %v (%T) is not a key-value pair", e.Value, e.Value)
}

// InvalidArgumentError occurs when an operation is called with an argument it cannot work with
type InvalidArgumentError struct {
	Name   string
	Reason string
}

// Error returns a textual representation of this InvalidArgumentError
func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument %s: %s", e.Name, e.Reason)
}

// MissingDatasetError occurs when a Dataset handle refers to a Dataset its driver no longer knows about,
// most often because the driver has been stopped
type MissingDatasetError struct{ ID int64 }

// Error returns a textual representation of this MissingDatasetError
func (e MissingDatasetError) Error() string {
	return fmt.Sprintf("Dataset %d does not exist", e.ID)
}
