package llm

import (
	"fmt"

	"github.com/m4xw311/nexus/errors"
)

// sdkError classifies an SDK failure by its HTTP status when the SDK exposes
// one. status 0 means the request never got an HTTP answer.
func sdkError(service string, status int, err error) error {
	if status == 0 {
		return &errors.APIError{Kind: errors.KindNetworkFailure, Message: fmt.Sprintf("%s request failed: %v", service, err), Err: err}
	}
	apiErr := errors.FromStatus(service, status, "")
	apiErr.Err = err
	return apiErr
}
