package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Healthcheck returns a health check function suitable for Kubernetes
// readiness/liveness probes or HTTP health endpoints.
//
// The returned function performs a lightweight DescribeTable call to verify
// that the table is reachable and active without touching item data.
func Healthcheck(client *dynamodb.Client, table string) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table),
		}); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
