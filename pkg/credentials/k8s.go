package credentials

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/isometry/fwboot/pkg/controllers/k8s"
)

const (
	SchemeK8sSecret    = "k8s-secret"
	SchemeK8sConfigMap = "k8s-cm"
)

type k8sController struct {
	Controller *k8s.Controller

	once    sync.Once
	initErr error
}

func (c *k8sController) get() (*k8s.Controller, error) {
	c.once.Do(func() {
		if c.Controller != nil {
			return
		}
		c.Controller, c.initErr = k8s.NewController()
		if c.initErr != nil {
			c.initErr = errors.Wrap(c.initErr, "failed to create kubernetes controller")
		}
	})
	return c.Controller, c.initErr
}

// K8sSecret reads a key of a Secret addressed as <namespace>/<name>#<key>.
type K8sSecret struct {
	k8sController
}

func NewK8sSecret(ctl *k8s.Controller) *K8sSecret {
	return &K8sSecret{k8sController{Controller: ctl}}
}

func (k *K8sSecret) Scheme() string {
	return SchemeK8sSecret
}

func (k *K8sSecret) Fetch(ctx context.Context, ref Reference) (string, error) {
	namespace, name, err := splitNamespaced(ref.Path)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return "", fmt.Errorf("kubernetes secret reference requires a #key")
	}
	ctl, err := k.get()
	if err != nil {
		return "", err
	}

	secret, err := ctl.GetSecret(ctx, namespace, name)
	if err != nil {
		return "", err
	}
	if value, ok := secret.Data[ref.Key]; ok {
		return string(value), nil
	}
	if value, ok := secret.StringData[ref.Key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("key %q not found in secret %s/%s", ref.Key, namespace, name)
}

// K8sConfigMap reads a key of a ConfigMap addressed as <namespace>/<name>#<key>.
type K8sConfigMap struct {
	k8sController
}

func NewK8sConfigMap(ctl *k8s.Controller) *K8sConfigMap {
	return &K8sConfigMap{k8sController{Controller: ctl}}
}

func (k *K8sConfigMap) Scheme() string {
	return SchemeK8sConfigMap
}

func (k *K8sConfigMap) Fetch(ctx context.Context, ref Reference) (string, error) {
	namespace, name, err := splitNamespaced(ref.Path)
	if err != nil {
		return "", err
	}
	if ref.Key == "" {
		return "", fmt.Errorf("kubernetes config map reference requires a #key")
	}
	ctl, err := k.get()
	if err != nil {
		return "", err
	}

	configMap, err := ctl.GetConfigMap(ctx, namespace, name)
	if err != nil {
		return "", err
	}
	value, ok := configMap.Data[ref.Key]
	if !ok {
		return "", fmt.Errorf("key %q not found in config map %s/%s", ref.Key, namespace, name)
	}
	return value, nil
}
