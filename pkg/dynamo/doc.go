// Package dynamo provides DynamoDB connection management with
// environment-driven configuration.
//
// It resolves the AWS configuration chain, optionally pinning static
// credentials and a custom endpoint (useful for DynamoDB Local in
// development), and exposes a table-level health check for container
// orchestration.
//
// # Usage
//
//	import (
//		"context"
//
//		"github.com/dmitrymomot/dynastore/pkg/config"
//		"github.com/dmitrymomot/dynastore/pkg/dynamo"
//	)
//
//	func main() {
//		var cfg dynamo.Config
//		config.MustLoad(&cfg)
//
//		client, err := dynamo.New(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		health := dynamo.Healthcheck(client, "sessions")
//		if err := health(context.Background()); err != nil {
//			log.Println("dynamodb is unavailable:", err)
//		}
//	}
//
// # Error Handling
//
// Connection and health check failures are wrapped in package errors so
// callers can branch with errors.Is while retaining the SDK's underlying
// error detail.
package dynamo
