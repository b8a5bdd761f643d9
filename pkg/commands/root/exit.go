package root

import (
	"errors"

	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/panorama"
	"github.com/isometry/fwboot/pkg/upload"
)

// Process exit codes, one per error class.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitConnection = 3
	ExitRemote     = 4
	ExitUpload     = 5
)

// ExitCode maps err to the process exit code of its class.
func ExitCode(err error) int {
	var (
		validationErr *config.ValidationError
		connectionErr *panorama.ConnectionError
		remoteErr     *panorama.RemoteOperationError
		uploadErr     *upload.UploadError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &validationErr):
		return ExitValidation
	case errors.As(err, &connectionErr):
		return ExitConnection
	case errors.As(err, &remoteErr):
		return ExitRemote
	case errors.As(err, &uploadErr):
		return ExitUpload
	default:
		return ExitFailure
	}
}
