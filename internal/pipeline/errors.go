package pipeline

import "errors"

var (
	// ErrNoManifest is returned when a step needs the decoded source but
	// the fetch step has not run.
	ErrNoManifest = errors.New("no source manifest decoded")

	// ErrNoOutput is returned when a step needs the generated manifest but
	// the assemble step has not run.
	ErrNoOutput = errors.New("no annotation manifest generated")

	// ErrVerification is returned when the generated manifest does not
	// match its source.
	ErrVerification = errors.New("annotation manifest verification failed")
)
