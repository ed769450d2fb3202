package dynastore

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	sessionKeyPrefix = "SESSION#"
	userKeyPrefix    = "USER#"

	// sessionMarker doubles as the sort-key discriminator of session items and
	// as the constant partition value of the global expiry index.
	sessionMarker = "SESSION"
	userMarker    = "USER"
)

// expiryDigits fixes the width of the zero-padded decimal expiry encoding so
// that lexicographic order of the index sort key equals chronological order.
// Twelve digits cover epoch seconds until the year 33658.
const expiryDigits = 12

// encodeExpiry renders an expiry timestamp as the index sort-key value.
func encodeExpiry(t time.Time) string {
	return fmt.Sprintf("%0*d", expiryDigits, t.Unix())
}

// sessionKey builds the primary key of the session item.
func (c Config) sessionKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		c.PartitionKey: &types.AttributeValueMemberS{Value: sessionKeyPrefix + id},
		c.SortKey:      &types.AttributeValueMemberS{Value: sessionMarker},
	}
}

// userKey builds the primary key of the user item.
func (c Config) userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		c.PartitionKey: &types.AttributeValueMemberS{Value: userKeyPrefix + id},
		c.SortKey:      &types.AttributeValueMemberS{Value: userMarker},
	}
}

// sessionItem maps a session to its full item representation: primary key,
// both secondary index key pairs, the numeric TTL attribute and the flattened
// attribute map, written atomically as one item so they can never disagree.
func (c Config) sessionItem(s *Session) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(s.Attributes)+7)
	if len(s.Attributes) > 0 {
		attrs, err := attributevalue.MarshalMap(s.Attributes)
		if err != nil {
			return nil, fmt.Errorf("marshal session attributes: %w", err)
		}
		for name, av := range attrs {
			item[name] = av
		}
	}

	expiry := encodeExpiry(s.ExpiresAt)
	item[c.PartitionKey] = &types.AttributeValueMemberS{Value: sessionKeyPrefix + s.ID}
	item[c.SortKey] = &types.AttributeValueMemberS{Value: sessionMarker}
	item[c.UserIndexPartitionKey] = &types.AttributeValueMemberS{Value: userKeyPrefix + s.UserID}
	item[c.UserIndexSortKey] = &types.AttributeValueMemberS{Value: expiry}
	item[c.ExpiryIndexPartitionKey] = &types.AttributeValueMemberS{Value: sessionMarker}
	item[c.ExpiryIndexSortKey] = &types.AttributeValueMemberS{Value: expiry}
	item[c.TTLAttribute] = &types.AttributeValueMemberN{Value: strconv.FormatInt(s.ExpiresAt.Unix(), 10)}
	return item, nil
}

// sessionFromItem reconstructs a session from a raw item. It fails with
// ErrMalformedRecord when the primary key or the TTL attribute is absent or of
// the wrong type, which signals a foreign writer rather than a caller mistake.
func (c Config) sessionFromItem(item map[string]types.AttributeValue) (*Session, error) {
	id, err := keyValue(item, c.PartitionKey, sessionKeyPrefix)
	if err != nil {
		return nil, err
	}

	expiresAttr, ok := item[c.TTLAttribute].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.Join(ErrMalformedRecord, fmt.Errorf("attribute %q is not a number", c.TTLAttribute))
	}
	expires, err := strconv.ParseInt(expiresAttr.Value, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrMalformedRecord, fmt.Errorf("attribute %q: %w", c.TTLAttribute, err))
	}

	sess := &Session{
		ID:        id,
		ExpiresAt: time.Unix(expires, 0).UTC(),
	}
	// The user reference lives in the first secondary index partition value.
	if user, ok := item[c.UserIndexPartitionKey].(*types.AttributeValueMemberS); ok {
		sess.UserID = strings.TrimPrefix(user.Value, userKeyPrefix)
	}

	sess.Attributes, err = c.entityAttributes(item, c.sessionExcluded)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// userFromItem reconstructs a user from a raw item. Users carry no expiry and
// no expiry-index keys.
func (c Config) userFromItem(item map[string]types.AttributeValue) (*User, error) {
	id, err := keyValue(item, c.PartitionKey, userKeyPrefix)
	if err != nil {
		return nil, err
	}
	attrs, err := c.entityAttributes(item, c.userExcluded)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Attributes: attrs}, nil
}

func (c Config) entityAttributes(item map[string]types.AttributeValue, excluded func(string) bool) (map[string]any, error) {
	attrs := make(map[string]any)
	for name, av := range item {
		if excluded(name) {
			continue
		}
		var v any
		if err := attributevalue.Unmarshal(av, &v); err != nil {
			return nil, fmt.Errorf("unmarshal attribute %q: %w", name, err)
		}
		attrs[name] = v
	}
	return attrs, nil
}

func (c Config) sessionExcluded(name string) bool {
	switch name {
	case c.PartitionKey, c.SortKey,
		c.UserIndexPartitionKey, c.UserIndexSortKey,
		c.ExpiryIndexPartitionKey, c.ExpiryIndexSortKey,
		c.TTLAttribute:
		return true
	}
	return slices.Contains(c.SessionSkipAttributes, name)
}

func (c Config) userExcluded(name string) bool {
	switch name {
	case c.PartitionKey, c.SortKey,
		c.UserIndexPartitionKey, c.UserIndexSortKey:
		return true
	}
	return slices.Contains(c.UserSkipAttributes, name)
}

// keyValue extracts a string key attribute and strips the entity prefix.
func keyValue(item map[string]types.AttributeValue, name, prefix string) (string, error) {
	av, ok := item[name]
	if !ok {
		return "", errors.Join(ErrMalformedRecord, fmt.Errorf("key attribute %q not found", name))
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.Join(ErrMalformedRecord, fmt.Errorf("key attribute %q is not a string", name))
	}
	return strings.TrimPrefix(s.Value, prefix), nil
}

// primaryKeyOf extracts the primary key pair from an item, typically one
// returned with a key-only projection.
func (c Config) primaryKeyOf(item map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	pk, ok := item[c.PartitionKey]
	if !ok {
		return nil, errors.Join(ErrMalformedRecord, fmt.Errorf("key attribute %q not found", c.PartitionKey))
	}
	sk, ok := item[c.SortKey]
	if !ok {
		return nil, errors.Join(ErrMalformedRecord, fmt.Errorf("key attribute %q not found", c.SortKey))
	}
	return map[string]types.AttributeValue{c.PartitionKey: pk, c.SortKey: sk}, nil
}
