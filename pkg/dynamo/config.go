package dynamo

// Config represents the configuration for the DynamoDB connection.
type Config struct {
	Region           string `env:"AWS_REGION" envDefault:"us-east-1"`          // Region is the AWS region of the table.
	AccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`                          // AccessKeyID enables static credentials when set together with SecretAccessKey.
	SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`                      // SecretAccessKey is the static credential secret.
	Endpoint         string `env:"DYNAMODB_ENDPOINT"`                          // Endpoint overrides the service endpoint, e.g. a local DynamoDB.
	RetryMaxAttempts int    `env:"DYNAMODB_RETRY_MAX_ATTEMPTS" envDefault:"3"` // RetryMaxAttempts is the SDK's request retry ceiling.
}
