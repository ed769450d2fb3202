package dynastore_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrymomot/dynastore/pkg/dynastore"
)

// mockClient is an in-memory stand-in for DynamoDB implementing the subset of
// behavior the store exercises: point reads/writes, conditional updates,
// key-condition queries with projection and continuation-token pagination,
// and batched deletes with scriptable unprocessed responses.
type mockClient struct {
	cfg   dynastore.Config
	items map[string]map[string]types.AttributeValue

	// pageSize caps items per Query response; 0 returns everything at once.
	pageSize int

	queryCalls int
	batchCalls int
	lastGet    *dynamodb.GetItemInput

	// batchHook may mark a subset of a batch round's requests as unprocessed.
	batchHook func(round int, reqs []types.WriteRequest) []types.WriteRequest
}

func newMockClient(cfg dynastore.Config) *mockClient {
	return &mockClient{
		cfg:   cfg,
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockClient) keyOf(key map[string]types.AttributeValue) string {
	pk := key[m.cfg.PartitionKey].(*types.AttributeValueMemberS).Value
	sk := key[m.cfg.SortKey].(*types.AttributeValueMemberS).Value
	return pk + "\x00" + sk
}

func (m *mockClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.lastGet = params
	item, ok := m.items[m.keyOf(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: cloneItem(item)}, nil
}

func (m *mockClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.items[m.keyOf(params.Item)] = cloneItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(m.items, m.keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	item, ok := m.items[m.keyOf(params.Key)]
	if !ok {
		if params.ConditionExpression != nil {
			return nil, &types.ConditionalCheckFailedException{}
		}
		item = cloneItem(params.Key)
		m.items[m.keyOf(params.Key)] = item
	}

	// The store only ever issues "SET #a = :a, #b = :b, ..." updates.
	exprStr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, clause := range strings.Split(exprStr, ", ") {
		parts := strings.Split(clause, " = ")
		if len(parts) != 2 {
			return nil, fmt.Errorf("mock: unsupported update clause %q", clause)
		}
		name := params.ExpressionAttributeNames[strings.TrimSpace(parts[0])]
		item[name] = params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *mockClient) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.queryCalls++

	conds, err := parseKeyCondition(*params.KeyConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	var matched []map[string]types.AttributeValue
	for _, item := range m.items {
		if matchesAll(item, conds) {
			matched = append(matched, item)
		}
	}

	sortAttr := m.indexSortAttr(params.IndexName)
	sort.Slice(matched, func(i, j int) bool {
		return stringAttr(matched[i], sortAttr) < stringAttr(matched[j], sortAttr)
	})

	// Resume after the continuation token, if any.
	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		token := m.keyOf(params.ExclusiveStartKey)
		for i, item := range matched {
			if m.keyOf(item) == token {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	out := &dynamodb.QueryOutput{}
	page := matched
	if m.pageSize > 0 && len(matched) > m.pageSize {
		page = matched[:m.pageSize]
		last := page[len(page)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			m.cfg.PartitionKey: last[m.cfg.PartitionKey],
			m.cfg.SortKey:      last[m.cfg.SortKey],
		}
	}

	for _, item := range page {
		out.Items = append(out.Items, project(item, params.ProjectionExpression, params.ExpressionAttributeNames))
	}
	return out, nil
}

func (m *mockClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	round := m.batchCalls
	m.batchCalls++

	reqs := params.RequestItems[m.cfg.Table]

	var unprocessed []types.WriteRequest
	if m.batchHook != nil {
		unprocessed = m.batchHook(round, reqs)
	}
	skip := make(map[string]bool, len(unprocessed))
	for _, req := range unprocessed {
		skip[m.keyOf(req.DeleteRequest.Key)] = true
	}

	for _, req := range reqs {
		if req.DeleteRequest == nil {
			continue
		}
		key := m.keyOf(req.DeleteRequest.Key)
		if skip[key] {
			continue
		}
		delete(m.items, key)
	}

	out := &dynamodb.BatchWriteItemOutput{}
	if len(unprocessed) > 0 {
		out.UnprocessedItems = map[string][]types.WriteRequest{m.cfg.Table: unprocessed}
	}
	return out, nil
}

func (m *mockClient) indexSortAttr(indexName *string) string {
	if indexName == nil {
		return m.cfg.SortKey
	}
	switch *indexName {
	case m.cfg.UserIndexName:
		return m.cfg.UserIndexSortKey
	case m.cfg.ExpiryIndexName:
		return m.cfg.ExpiryIndexSortKey
	}
	return m.cfg.SortKey
}

type keyCondition struct {
	attr, op string
	value    types.AttributeValue
}

// parseKeyCondition understands the grammar the expression builder emits for
// this store: "#0 = :0" optionally joined as "(#0 = :0) AND (#1 < :1)".
func parseKeyCondition(expr string, names map[string]string, values map[string]types.AttributeValue) ([]keyCondition, error) {
	var conds []keyCondition
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.Trim(strings.TrimSpace(clause), "()")
		op := ""
		switch {
		case strings.Contains(clause, " = "):
			op = "="
		case strings.Contains(clause, " < "):
			op = "<"
		default:
			return nil, fmt.Errorf("mock: unsupported key condition %q", clause)
		}
		parts := strings.Split(clause, " "+op+" ")
		conds = append(conds, keyCondition{
			attr:  names[strings.TrimSpace(parts[0])],
			op:    op,
			value: values[strings.TrimSpace(parts[1])],
		})
	}
	return conds, nil
}

func matchesAll(item map[string]types.AttributeValue, conds []keyCondition) bool {
	for _, cond := range conds {
		got := stringAttr(item, cond.attr)
		want := cond.value.(*types.AttributeValueMemberS).Value
		switch cond.op {
		case "=":
			if got != want {
				return false
			}
		case "<":
			if got == "" || got >= want {
				return false
			}
		}
	}
	return true
}

func project(item map[string]types.AttributeValue, projection *string, names map[string]string) map[string]types.AttributeValue {
	if projection == nil {
		return cloneItem(item)
	}
	out := make(map[string]types.AttributeValue)
	for _, placeholder := range strings.Split(*projection, ", ") {
		name := names[strings.TrimSpace(placeholder)]
		if av, ok := item[name]; ok {
			out[name] = av
		}
	}
	return out
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
