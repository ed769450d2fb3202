package dynastore

import (
	"errors"
	"fmt"
)

// Config describes the physical layout of the session table: the table name,
// the primary key attributes, both global secondary indexes and the TTL
// attribute. It is a value object constructed once and never mutated after the
// store is built.
type Config struct {
	// Table is the name of the single table holding sessions and users.
	Table string `env:"DYNASTORE_TABLE" envDefault:"sessions"`

	// PartitionKey and SortKey name the table's composite primary key.
	PartitionKey string `env:"DYNASTORE_PARTITION_KEY" envDefault:"pk"`
	SortKey      string `env:"DYNASTORE_SORT_KEY" envDefault:"sk"`

	// UserIndex* describe the GSI keyed by (user, expiry) that serves
	// per-user session listings ordered by expiry.
	UserIndexName         string `env:"DYNASTORE_USER_INDEX" envDefault:"gsi1"`
	UserIndexPartitionKey string `env:"DYNASTORE_USER_INDEX_PK" envDefault:"gsi1pk"`
	UserIndexSortKey      string `env:"DYNASTORE_USER_INDEX_SK" envDefault:"gsi1sk"`

	// ExpiryIndex* describe the GSI keyed by (constant marker, expiry) that
	// turns global expiry sweeps into a single index range query.
	ExpiryIndexName         string `env:"DYNASTORE_EXPIRY_INDEX" envDefault:"gsi2"`
	ExpiryIndexPartitionKey string `env:"DYNASTORE_EXPIRY_INDEX_PK" envDefault:"gsi2pk"`
	ExpiryIndexSortKey      string `env:"DYNASTORE_EXPIRY_INDEX_SK" envDefault:"gsi2sk"`

	// TTLAttribute names the numeric epoch-seconds column to register as the
	// table's time-to-live attribute. DynamoDB evicts on it asynchronously and
	// best-effort only.
	TTLAttribute string `env:"DYNASTORE_TTL_ATTRIBUTE" envDefault:"expires"`

	// ConsistentReads opts the session point lookup into strongly consistent
	// reads, trading request cost for freshness.
	ConsistentReads bool `env:"DYNASTORE_CONSISTENT_READS" envDefault:"false"`

	// SessionSkipAttributes and UserSkipAttributes list item columns that must
	// never surface in the corresponding entity's attribute map. Key and TTL
	// attributes are always skipped regardless of these lists.
	SessionSkipAttributes []string `env:"DYNASTORE_SESSION_SKIP_ATTRIBUTES"`
	UserSkipAttributes    []string `env:"DYNASTORE_USER_SKIP_ATTRIBUTES"`
}

// DefaultConfig returns the layout used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Table:                   "sessions",
		PartitionKey:            "pk",
		SortKey:                 "sk",
		UserIndexName:           "gsi1",
		UserIndexPartitionKey:   "gsi1pk",
		UserIndexSortKey:        "gsi1sk",
		ExpiryIndexName:         "gsi2",
		ExpiryIndexPartitionKey: "gsi2pk",
		ExpiryIndexSortKey:      "gsi2sk",
		TTLAttribute:            "expires",
	}
}

func (c Config) validate() error {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"table", c.Table},
		{"partition key", c.PartitionKey},
		{"sort key", c.SortKey},
		{"user index name", c.UserIndexName},
		{"user index partition key", c.UserIndexPartitionKey},
		{"user index sort key", c.UserIndexSortKey},
		{"expiry index name", c.ExpiryIndexName},
		{"expiry index partition key", c.ExpiryIndexPartitionKey},
		{"expiry index sort key", c.ExpiryIndexSortKey},
		{"ttl attribute", c.TTLAttribute},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("missing: %v", missing))
	}
	return nil
}
