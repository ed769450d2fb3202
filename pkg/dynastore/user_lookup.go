package dynastore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// UserLookup resolves a user record by id. The default strategy is a point
// read of the user item in the session table; callers can substitute a
// strategy backed by a different store entirely via WithUserLookup, in which
// case this package never performs its own user reads.
type UserLookup interface {
	LookupUser(ctx context.Context, client Client, userID string) (*User, error)
}

// UserLookupFunc adapts a plain function to the UserLookup interface.
type UserLookupFunc func(ctx context.Context, client Client, userID string) (*User, error)

func (f UserLookupFunc) LookupUser(ctx context.Context, client Client, userID string) (*User, error) {
	return f(ctx, client, userID)
}

// tableUserLookup is the default strategy: a point read keyed by the
// configured primary key attributes. Absence is a nil user, never an error.
type tableUserLookup struct {
	cfg Config
}

func (l tableUserLookup) LookupUser(ctx context.Context, client Client, userID string) (*User, error) {
	if userID == "" {
		return nil, nil
	}
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.cfg.Table),
		Key:       l.cfg.userKey(userID),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return l.cfg.userFromItem(out.Item)
}
