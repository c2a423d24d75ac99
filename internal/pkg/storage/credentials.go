package storage

import (
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// CredentialSource names where the object store credential came from.
type CredentialSource string

const (
	// CredentialSourceKeyFile is an explicit shared credentials file.
	CredentialSourceKeyFile CredentialSource = "key_file"
	// CredentialSourceStatic is an access key pair from the environment config.
	CredentialSourceStatic CredentialSource = "static"
	// CredentialSourceAmbient is the SDK default chain (env, web identity, instance metadata).
	CredentialSourceAmbient CredentialSource = "ambient"
)

// credentialOptions picks the credential source. An explicit key file wins over
// static keys, which win over ambient workload identity. LoadDefaultConfig wraps
// whatever provider is chosen in aws.CredentialsCache, so the credential is
// resolved once and refreshed only when it expires.
func credentialOptions(cfg Config) ([]func(*config.LoadOptions) error, CredentialSource) {
	switch {
	case cfg.CredentialsFile != "":
		opts := []func(*config.LoadOptions) error{
			config.WithSharedCredentialsFiles([]string{cfg.CredentialsFile}),
		}
		if cfg.CredentialsProfile != "" {
			opts = append(opts, config.WithSharedConfigProfile(cfg.CredentialsProfile))
		}
		return opts, CredentialSourceKeyFile
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		return []func(*config.LoadOptions) error{
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		}, CredentialSourceStatic
	default:
		return nil, CredentialSourceAmbient
	}
}
