package sentnet

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no
// additional information necessary. These errors are defined as global
// variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterWrongType = Error{"Type is not recognized"}
	ErrRegisterNilReturn = Error{"Function return is nil"}
	ErrNetNotFinalized   = Error{"Network has not been finalized"}
	ErrNetFinalized      = Error{"Network has already been finalized"}
	ErrNegativeIter      = Error{"Iteration is less than zero"}
	ErrNoHP              = Error{"HyperParameter has not been set"}
)

// NilArgError documents errors resulting from certain arguments provided to a
// function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError documents errors resulting from values whose dimensions
// do not match what the Network expects.
type SizeMismatchError struct {
	Expected, Got int
	Of            string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size of %s does not match (expected %d, got %d)", err.Of, err.Expected, err.Got)
}
