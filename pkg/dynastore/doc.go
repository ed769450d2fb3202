// Package dynastore persists user sessions and user records in a single
// DynamoDB table, using two global secondary indexes to serve four access
// patterns without multiple round trips: point lookup by session id, listing
// all sessions of a user, sweeping all sessions expired before now, and a
// combined session-plus-user read.
//
// # Schema
//
// Every entity is one item under a composite primary key:
//
//	pk = "SESSION#" + id   sk = "SESSION"
//	pk = "USER#" + id      sk = "USER"
//
// Session items additionally carry two index key pairs and a TTL attribute,
// all written atomically with the primary key as a single item:
//
//	gsi1pk = "USER#" + userID   gsi1sk = <expiry>   // sessions per user
//	gsi2pk = "SESSION"          gsi2sk = <expiry>   // global expiry sweep
//	expires = epoch seconds                         // DynamoDB TTL attribute
//
// The <expiry> sort-key value is a fixed-width zero-padded decimal of epoch
// seconds so that lexicographic index order equals chronological order. The
// expires attribute can be registered as the table's TTL attribute; DynamoDB
// evicts on it asynchronously and best-effort, so readers here treat any
// session whose expiry has passed as absent regardless of physical removal.
//
// All attribute names, index names and the table name are configurable via
// Config; DefaultConfig returns the layout above.
//
// # Usage
//
//	client, err := dynamo.New(ctx, dynamoCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store, err := dynastore.New(client, dynastore.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, user, err := store.GetSessionAndUser(ctx, sessionID)
//	_ = store.DeleteExpiredSessions(ctx)
//
// User records are only ever read by this package. When user data lives in a
// different store, inject a UserLookup and the package defers entirely:
//
//	store, _ := dynastore.New(client, cfg, dynastore.WithUserLookup(
//		dynastore.UserLookupFunc(func(ctx context.Context, _ dynastore.Client, id string) (*dynastore.User, error) {
//			return usersFromPostgres(ctx, id)
//		}),
//	))
//
// # Error Handling
//
// Absence of a session or user is a nil result, never an error. Transport and
// throttling failures from the DynamoDB client propagate unmodified; the
// package performs no retries and no backoff. Items missing required key
// attributes surface as ErrMalformedRecord, and a batch delete that the store
// keeps rejecting surfaces as ErrUnprocessedItems — partial success is never
// reported as success.
//
// # Concurrency
//
// The Store holds no mutable state and is safe for concurrent use. Writers to
// the same session id race under last-write-wins full-item replacement, except
// UpdateSessionExpiration, whose existence condition prevents resurrecting a
// concurrently deleted session.
package dynastore
