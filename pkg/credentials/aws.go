package credentials

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/isometry/fwboot/pkg/controllers/aws"
)

const (
	SchemeAWSSecretsManager = "aws-sm"
	SchemeAWSParameterStore = "aws-ssm"
)

// awsController lazily creates a shared controller from the default AWS
// configuration chain.
type awsController struct {
	Controller *aws.Controller

	once    sync.Once
	initErr error
}

func (c *awsController) get(ctx context.Context) (*aws.Controller, error) {
	c.once.Do(func() {
		if c.Controller != nil {
			return
		}
		c.Controller, c.initErr = aws.NewController(ctx)
		if c.initErr != nil {
			c.initErr = errors.Wrap(c.initErr, "failed to create AWS controller")
		}
	})
	return c.Controller, c.initErr
}

// AWSSecretsManager reads Secrets Manager secrets. With a #key the secret
// string is decoded as a JSON object and the key's value returned.
type AWSSecretsManager struct {
	awsController
}

func NewAWSSecretsManager(ctl *aws.Controller) *AWSSecretsManager {
	return &AWSSecretsManager{awsController{Controller: ctl}}
}

func (s *AWSSecretsManager) Scheme() string {
	return SchemeAWSSecretsManager
}

func (s *AWSSecretsManager) Fetch(ctx context.Context, ref Reference) (string, error) {
	ctl, err := s.get(ctx)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return ctl.GetSecretManagerSecret(ctx, ref.Path)
	}
	return ctl.GetSecretManagerSecretKey(ctx, ref.Path, ref.Key)
}

// AWSParameterStore reads SSM parameters, always with decryption.
type AWSParameterStore struct {
	awsController
}

func NewAWSParameterStore(ctl *aws.Controller) *AWSParameterStore {
	return &AWSParameterStore{awsController{Controller: ctl}}
}

func (s *AWSParameterStore) Scheme() string {
	return SchemeAWSParameterStore
}

func (s *AWSParameterStore) Fetch(ctx context.Context, ref Reference) (string, error) {
	ctl, err := s.get(ctx)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return ctl.GetSystemsManagerSecret(ctx, ref.Path, true)
	}
	return ctl.GetSystemsManagerSecretKey(ctx, ref.Path, ref.Key, true)
}
