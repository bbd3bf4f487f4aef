package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrNoKeyPair is returned by Provider when the access key pair is incomplete.
var ErrNoKeyPair = errors.New("S3 access key pair is not set")

// ProviderSource names the credentials source reported to the AWS SDK.
const ProviderSource = "CryoGridEnvironment"

// Credentials holds the S3 access settings read from the environment.
type Credentials struct {
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	EndpointURL     string `envconfig:"AWS_ENDPOINT_URL"`
	Region          string `envconfig:"AWS_REGION"`
}

// FromEnv reads the AWS variables from the process environment. Absent
// variables are left empty.
func FromEnv() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, fmt.Errorf("read credentials from environment: %w", err)
	}
	return c, nil
}

// Discover loads dotenvPath (when set) and reads the credentials. Missing
// credentials are only logged; downstream fetchers decide how to react.
func Discover(dotenvPath, searchDir string, logger *zap.Logger) (Credentials, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dotenvPath != "" {
		if _, err := LoadDotenv(searchDir, dotenvPath, logger); err != nil {
			return Credentials{}, err
		}
	}

	c, err := FromEnv()
	if err != nil {
		return Credentials{}, err
	}

	if missing := c.Missing(); len(missing) > 0 {
		logger.Warn("S3 bucket credentials not found in environment variables", zap.Strings("missing", missing))
	} else {
		logger.Info("S3 bucket credentials found in environment variables", zap.Object("credentials", c))
	}
	return c, nil
}

// Missing lists the names of the required variables that are empty.
func (c Credentials) Missing() []string {
	var missing []string
	if c.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if c.EndpointURL == "" {
		missing = append(missing, "AWS_ENDPOINT_URL")
	}
	return missing
}

// Provider adapts the credentials for AWS SDK clients.
func (c Credentials) Provider() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		if c.AccessKeyID == "" || c.SecretAccessKey == "" {
			return aws.Credentials{}, ErrNoKeyPair
		}
		return aws.Credentials{
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
			Source:          ProviderSource,
		}, nil
	})
}

// MarshalLogObject implements zapcore.ObjectMarshaler without exposing secrets.
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("access_key_id_set", c.AccessKeyID != "")
	enc.AddBool("secret_access_key_set", c.SecretAccessKey != "")
	enc.AddString("endpoint_url", c.EndpointURL)
	if c.Region != "" {
		enc.AddString("region", c.Region)
	}
	return nil
}
