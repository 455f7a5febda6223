package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsAreMatchable(t *testing.T) {
	wrapped := fmt.Errorf("saving: %w", FileAlreadyExistsError{Path: "/tmp/out"})
	var faErr FileAlreadyExistsError
	require.True(t, stderrors.As(wrapped, &faErr))
	require.Equal(t, "/tmp/out", faErr.Path)
	require.True(t, stderrors.Is(fmt.Errorf("x: %w", NoMoreElementsError{}), NoMoreElementsError{}))
	require.Contains(t, EmptyDatasetError{Operation: "Mean"}.Error(), "Mean")
	require.Contains(t, NotNumericError{Value: "a"}.Error(), "string")
}
