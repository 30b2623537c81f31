package datalake

import (
	stderrors "errors"
	"strings"

	"github.com/aws/smithy-go"
	crerr "github.com/cockroachdb/errors"

	"github.com/hoopsight/nba-datalake/internal/usecase"
)

// classifyExisting maps the AWS "this resource is already there" family of
// errors onto the shared already-exists sentinel so the orchestrator can
// treat them as idempotent success. Anything else passes through wrapped.
func classifyExisting(err error, resource string) error {
	if err == nil {
		return nil
	}
	if isAlreadyExists(err) {
		return crerr.Mark(crerr.Wrapf(err, "%s", resource), usecase.ErrAlreadyExists)
	}
	return crerr.Wrapf(err, "%s", resource)
}

func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	// S3 reports BucketAlreadyExists / BucketAlreadyOwnedByYou, Glue and
	// CloudWatch Logs use *AlreadyExistsException, older Glue paths report
	// EntityExistsException.
	return strings.Contains(code, "AlreadyExists") ||
		strings.Contains(code, "AlreadyOwnedByYou") ||
		code == "EntityExistsException"
}
