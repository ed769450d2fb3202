package dynastore

import "errors"

var (
	// ErrMissingClient indicates no DynamoDB client was provided to New.
	ErrMissingClient = errors.New("dynamodb client is required")

	// ErrInvalidConfig indicates the schema configuration is unusable.
	ErrInvalidConfig = errors.New("invalid store configuration")

	// ErrInvalidSession indicates a nil session or one without an id.
	ErrInvalidSession = errors.New("invalid session")

	// ErrMalformedRecord indicates an item fetched from the table is missing a
	// required key attribute or carries one of the wrong type. Items written by
	// this package never trigger it; it signals schema drift or a foreign writer.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnprocessedItems indicates a batch delete kept returning unprocessed
	// keys and gave up. An indeterminate subset of the target keys was removed.
	ErrUnprocessedItems = errors.New("batch delete left unprocessed keys")
)
