package dynastore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchWriteItems is DynamoDB's hard ceiling on entries per BatchWriteItem.
const maxBatchWriteItems = 25

// unprocessedStallLimit bounds consecutive rounds in which the store returns
// every submitted key as unprocessed before the executor gives up.
const unprocessedStallLimit = 3

// batchDelete removes the given primary keys in sequential chunks of at most
// maxBatchWriteItems. Chunks are independent: a transport failure on one chunk
// aborts the loop but earlier chunks stay deleted, so on error the caller must
// assume an indeterminate subset of keys was removed. Keys the store reports
// as unprocessed are re-queued and retried immediately; if the store keeps
// rejecting whole chunks, the remainder surfaces as ErrUnprocessedItems.
func (s *Store) batchDelete(ctx context.Context, keys []map[string]types.AttributeValue) error {
	pending := keys
	stalled := 0

	for len(pending) > 0 {
		n := min(len(pending), maxBatchWriteItems)
		chunk := pending[:n]
		pending = pending[n:]

		reqs := make([]types.WriteRequest, n)
		for i, key := range chunk {
			reqs[i] = types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}}
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.cfg.Table: reqs},
		})
		if err != nil {
			return err
		}

		unprocessed := out.UnprocessedItems[s.cfg.Table]
		if len(unprocessed) == 0 {
			stalled = 0
			continue
		}

		s.log.WarnContext(ctx, "batch delete returned unprocessed keys",
			"table", s.cfg.Table, "count", len(unprocessed))

		if len(unprocessed) == n {
			stalled++
			if stalled >= unprocessedStallLimit {
				return fmt.Errorf("%w: %d remaining", ErrUnprocessedItems, len(unprocessed)+len(pending))
			}
		} else {
			stalled = 0
		}
		for _, req := range unprocessed {
			if req.DeleteRequest != nil {
				pending = append(pending, req.DeleteRequest.Key)
			}
		}
	}
	return nil
}
