package dynastore

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// deleteExpired locates every session whose expiry precedes now via a range
// query on the global expiry index and removes them in batches. Only the
// primary key attributes are projected; the rest of the item is irrelevant to
// a deletion sweep.
func (s *Store) deleteExpired(ctx context.Context, now time.Time) error {
	keyCond := expression.Key(s.cfg.ExpiryIndexPartitionKey).Equal(expression.Value(sessionMarker)).
		And(expression.Key(s.cfg.ExpiryIndexSortKey).LessThan(expression.Value(encodeExpiry(now))))
	proj := expression.NamesList(expression.Name(s.cfg.PartitionKey), expression.Name(s.cfg.SortKey))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return err
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.cfg.Table),
		IndexName:                 aws.String(s.cfg.ExpiryIndexName),
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

	s.log.DebugContext(ctx, "sweeping expired sessions",
		"table", s.cfg.Table, "expired", len(keys))

	return s.batchDelete(ctx, keys)
}
