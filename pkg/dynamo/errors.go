package dynamo

import "errors"

var (
	ErrFailedToConnect   = errors.New("failed to configure dynamodb client")
	ErrHealthcheckFailed = errors.New("dynamodb healthcheck failed")
)
