package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/pkg/errors"
)

type Controller struct {
	logger *slog.Logger

	config    *aws.Config
	endpoint  string
	ssmClient *ssm.Client
	smClient  *secretsmanager.Client
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithConfig(cfg aws.Config) Option {
	return func(c *Controller) {
		c.config = &cfg
	}
}

// WithEndpoint overrides the service endpoint of both clients.
func WithEndpoint(endpoint string) Option {
	return func(c *Controller) {
		c.endpoint = endpoint
	}
}

func NewController(ctx context.Context, opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	_inst.logger = _inst.logger.With("controller", "AWSController")
	if _inst.config == nil {
		_inst.logger.Debug("loading default AWSController configuration...")
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWSController configuration")
		}
		cfg.Logger = newAWSLogger(_inst.logger)
		_inst.config = &cfg
	}

	_inst.ssmClient = ssm.NewFromConfig(*_inst.config, func(o *ssm.Options) {
		if _inst.endpoint != "" {
			o.BaseEndpoint = aws.String(_inst.endpoint)
		}
	})
	_inst.smClient = secretsmanager.NewFromConfig(*_inst.config, func(o *secretsmanager.Options) {
		if _inst.endpoint != "" {
			o.BaseEndpoint = aws.String(_inst.endpoint)
		}
	})
	return _inst, nil
}

func (a *Controller) GetSystemsManagerSecret(ctx context.Context, path string, decrypt bool) (string, error) {
	a.logger.With("path", path).Debug("fetching SSM parameter...")
	ssmResponse, err := a.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load SSM parameter")
	}
	if ssmResponse.Parameter == nil {
		return "", errors.New("empty SSM parameter")
	}
	return aws.ToString(ssmResponse.Parameter.Value), nil
}

func (a *Controller) GetSystemsManagerSecretKey(ctx context.Context, path, key string, decrypt bool) (string, error) {
	a.logger.With("path", path, "key", key, "decrypt", decrypt).Debug("fetching SSM parameter key...")
	value, err := a.GetSystemsManagerSecret(ctx, path, decrypt)
	if err != nil {
		return "", err
	}
	return extractKey(value, key)
}

func (a *Controller) GetSecretManagerSecret(ctx context.Context, path string) (string, error) {
	a.logger.With("path", path).Debug("fetching Secrets Manager secret...")
	smResponse, err := a.smClient.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load Secrets Manager secret")
	}
	return aws.ToString(smResponse.SecretString), nil
}

func (a *Controller) GetSecretManagerSecretKey(ctx context.Context, path, key string) (string, error) {
	a.logger.With("path", path).With("key", key).Debug("fetching Secrets Manager secret key...")
	value, err := a.GetSecretManagerSecret(ctx, path)
	if err != nil {
		return "", err
	}
	return extractKey(value, key)
}

// extractKey reads key from a JSON object secret.
func extractKey(value, key string) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal secret")
	}
	if len(raw) == 0 {
		return "", errors.New("empty secret")
	}
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret", key)
	}
	return fmt.Sprint(v), nil
}

type awsLogger struct {
	logger *slog.Logger
}

func newAWSLogger(logger *slog.Logger) *awsLogger {
	return &awsLogger{logger}
}

func (a *awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	a.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
