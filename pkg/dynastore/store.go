package dynastore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Store maps sessions and users onto a single DynamoDB table. Every public
// operation is an independent unit of work: there is no in-process locking
// and no shared mutable state across calls. Store errors propagate to the
// caller unmodified; this package performs no retries and no backoff.
type Store struct {
	client Client
	cfg    Config
	log    *slog.Logger
	users  UserLookup
	now    func() time.Time
}

// New creates a Store over the given client and table layout.
func New(client Client, cfg Config, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrMissingClient
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		client: client,
		cfg:    cfg,
		log:    slog.Default(),
		users:  tableUserLookup{cfg: cfg},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetSessionAndUser retrieves a session and its referenced user in one call.
// It returns (nil, nil) when the session is absent or already expired, and
// (session, nil) when the session exists but its user does not. The session
// read honors the configured consistent-read flag; the user read goes through
// the configured lookup strategy.
func (s *Store) GetSessionAndUser(ctx context.Context, sessionID string) (*Session, *User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.cfg.Table),
		Key:            s.cfg.sessionKey(sessionID),
		ConsistentRead: aws.Bool(s.cfg.ConsistentReads),
	})
	if err != nil {
		return nil, nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil, nil
	}

	sess, err := s.cfg.sessionFromItem(out.Item)
	if err != nil {
		return nil, nil, err
	}
	// An expired session is logically absent even before the sweep or the
	// table's TTL eviction physically removes it.
	if sess.IsExpired(s.now()) {
		return nil, nil, nil
	}

	user, err := s.users.LookupUser(ctx, s.client, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	return sess, user, nil
}

// GetUserSessions returns all live sessions of a user, ordered ascending by
// expiry. Expired-but-unswept sessions are filtered out; no sessions is an
// empty slice, not an error.
func (s *Store) GetUserSessions(ctx context.Context, userID string) ([]*Session, error) {
	keyCond := expression.Key(s.cfg.UserIndexPartitionKey).Equal(expression.Value(userKeyPrefix + userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.cfg.Table),
		IndexName:                 aws.String(s.cfg.UserIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	sessions := make([]*Session, 0, len(items))
	for _, item := range items {
		sess, err := s.cfg.sessionFromItem(item)
		if err != nil {
			return nil, err
		}
		if sess.IsExpired(now) {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// SetSession writes the session as a full item overwrite. Re-submitting the
// same id replaces the previous item; the primary key and both index key
// pairs are written atomically as one item.
func (s *Store) SetSession(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidSession
	}
	item, err := s.cfg.sessionItem(sess)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.Table),
		Item:      item,
	})
	return err
}

// UpdateSessionExpiration moves a session's expiry. An expiry at or before
// the current time behaves identically to DeleteSession rather than writing a
// past timestamp. Otherwise only the expiry-bearing attributes are updated,
// conditioned on the item still existing, so a concurrently deleted session
// is never resurrected; that condition failing is not an error.
func (s *Store) UpdateSessionExpiration(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return s.DeleteSession(ctx, sessionID)
	}

	expiry := encodeExpiry(expiresAt)
	update := expression.
		Set(expression.Name(s.cfg.UserIndexSortKey), expression.Value(expiry)).
		Set(expression.Name(s.cfg.ExpiryIndexSortKey), expression.Value(expiry)).
		Set(expression.Name(s.cfg.TTLAttribute), expression.Value(expiresAt.Unix()))
	cond := expression.AttributeExists(expression.Name(s.cfg.PartitionKey))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return err
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.cfg.Table),
		Key:                       s.cfg.sessionKey(sessionID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if isConditionalCheckFailed(err) {
		return nil
	}
	return err
}

// DeleteSession removes a session. Deleting an absent id is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.Table),
		Key:       s.cfg.sessionKey(sessionID),
	})
	return err
}

// DeleteUserSessions removes every session of a user via the user index and a
// batched delete. On error an indeterminate subset may already be removed.
func (s *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	keyCond := expression.Key(s.cfg.UserIndexPartitionKey).Equal(expression.Value(userKeyPrefix + userID))
	proj := expression.NamesList(expression.Name(s.cfg.PartitionKey), expression.Name(s.cfg.SortKey))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return err
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.cfg.Table),
		IndexName:                 aws.String(s.cfg.UserIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	keys := make([]map[string]types.AttributeValue, len(items))
	for i, item := range items {
		if keys[i], err = s.cfg.primaryKeyOf(item); err != nil {
			return err
		}
	}
	return s.batchDelete(ctx, keys)
}

// DeleteExpiredSessions sweeps every session whose expiry precedes the time
// of the call.
func (s *Store) DeleteExpiredSessions(ctx context.Context) error {
	return s.deleteExpired(ctx, s.now())
}

func isConditionalCheckFailed(err error) bool {
	if err == nil {
		return false
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}
