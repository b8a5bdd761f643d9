// Package bootstrap sequences a complete firewall pair bootstrap against a
// Panorama endpoint.
//
// The run is idempotent with respect to the endpoint: when a VM auth key
// already exists it is reused and config rendering and upload are skipped
// entirely. License bundles are uploaded on every run, best-effort.
package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/isometry/fwboot/pkg/authkey"
	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/credentials"
	"github.com/isometry/fwboot/pkg/initcfg"
	"github.com/isometry/fwboot/pkg/panorama"
	"github.com/isometry/fwboot/pkg/upload"
	"github.com/isometry/fwboot/pkg/utils"
)

const StatusOK = "OK"

// State is a step of the bootstrap state machine.
type State string

const (
	StateNotConnected     State = "NotConnected"
	StateConnected        State = "Connected"
	StateKeyResolved      State = "KeyResolved"
	StateConfigsRendered  State = "ConfigsRendered"
	StateUploaded         State = "Uploaded"
	StateLicensesUploaded State = "LicensesUploaded"
	StateDone             State = "Done"
)

// Uploader pushes artifacts to a named share.
type Uploader interface {
	UploadConfig(ctx context.Context, path, share string) error
	UploadLicenses(ctx context.Context, dir, share string) upload.Result
}

// Connector opens a session with the management endpoint.
type Connector interface {
	Connect(ctx context.Context, endpoint string, creds panorama.Credentials) (panorama.Session, error)
}

// Result is the outcome of a successful run.
type Result struct {
	VMAuthKey string          `json:"vm-auth-key" yaml:"vm-auth-key"`
	Status    string          `json:"status" yaml:"status"`
	Created   bool            `json:"created" yaml:"created"`
	Configs   []string        `json:"configs,omitempty" yaml:"configs,omitempty"`
	Licenses  []upload.Result `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	States    []State         `json:"states" yaml:"states"`
}

// External is the flat result returned to Terraform.
func (r *Result) External() map[string]string {
	return map[string]string{
		"vm-auth-key": r.VMAuthKey,
		"status":      r.Status,
	}
}

type Bootstrapper struct {
	Connector Connector
	Uploader  Uploader
}

// New wires the production collaborators for q.
func New(q *config.Query) *Bootstrapper {
	dialer := panorama.NewHTTPDialer(!q.VerifyTLS, q.Timeout)
	azure := upload.NewAzureFiles(upload.ExecRunner{}, q.StorageAccountName, q.StorageAccountKey)
	azure.Binary = q.AzBinary

	return &Bootstrapper{
		Connector: panorama.NewConnector(dialer, q.RetryPolicy()),
		Uploader:  azure,
	}
}

type run struct {
	log    *slog.Logger
	result *Result
}

func (r *run) enter(state State) {
	r.result.States = append(r.result.States, state)
	r.log.Debug("state", slog.String("state", string(state)))
}

// Run performs the bootstrap and returns the resolved key.
func (b *Bootstrapper) Run(ctx context.Context, q *config.Query) (*Result, error) {
	ctx = slogctx.With(ctx, slog.String("run_id", uuid.NewString()))
	log := utils.ContextLogger(ctx, slog.String("context", "bootstrap"), slog.String("panorama", q.PanoramaIP))

	r := &run{log: log, result: &Result{}}
	r.enter(StateNotConnected)

	session, err := b.Connector.Connect(ctx, q.PanoramaIP, panorama.Credentials{
		Username: q.Username,
		Password: q.Password,
	})
	if err != nil {
		return nil, err
	}
	r.enter(StateConnected)

	key, err := authkey.NewManager(session).Ensure(ctx, q.KeyLifetime)
	if err != nil {
		return nil, err
	}
	r.result.VMAuthKey = key.Value
	r.result.Created = key.Created
	r.enter(StateKeyResolved)

	// an existing key means the configs were rendered and uploaded by an earlier run
	if key.Created {
		if err := b.provision(ctx, r, q, key.Value); err != nil {
			return nil, err
		}
	} else {
		log.Info("endpoint already bootstrapped, skipping config upload")
	}

	r.result.Licenses = b.uploadLicenses(ctx, q)
	if len(r.result.Licenses) > 0 {
		r.enter(StateLicensesUploaded)
	}

	r.result.Status = StatusOK
	r.enter(StateDone)
	log.Info("bootstrap complete", slog.Bool("created", key.Created))

	return r.result, nil
}

func (b *Bootstrapper) provision(ctx context.Context, r *run, q *config.Query, key string) error {
	paths := make(map[initcfg.Role]string, len(initcfg.Roles))
	for _, role := range initcfg.Roles {
		doc := initcfg.NewDocument(role, q.InitCfg(role, key))
		path, err := initcfg.Write(q.OutputDir, doc)
		if err != nil {
			return err
		}
		r.log.Info("rendered init-cfg", slog.String("role", string(role)), slog.String("path", path))
		paths[role] = path
		r.result.Configs = append(r.result.Configs, path)
	}
	r.enter(StateConfigsRendered)

	for _, role := range initcfg.Roles {
		if err := b.Uploader.UploadConfig(ctx, paths[role], q.Role(role).Share); err != nil {
			return err
		}
	}
	r.enter(StateUploaded)

	return nil
}

// uploadLicenses uploads the license directory to both shares if it exists.
func (b *Bootstrapper) uploadLicenses(ctx context.Context, q *config.Query) []upload.Result {
	log := utils.ContextLogger(ctx, slog.String("context", "bootstrap"))

	dir := q.LicenseDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Debug("no license directory", slog.String("dir", dir))
		return nil
	}

	results := make([]upload.Result, 0, len(initcfg.Roles))
	for _, role := range initcfg.Roles {
		results = append(results, b.Uploader.UploadLicenses(ctx, dir, q.Role(role).Share))
	}
	return results
}

// RunQuery is the black-box entrypoint: named parameters in, the flat
// {vm-auth-key, status} mapping out.
func RunQuery(ctx context.Context, params map[string]any, resolver credentials.Resolver) (map[string]string, error) {
	q, err := config.FromMap(ctx, params)
	if err != nil {
		return nil, err
	}
	if resolver != nil {
		if q, err = q.ResolveSecrets(ctx, resolver); err != nil {
			return nil, err
		}
	}

	result, err := New(q).Run(ctx, q)
	if err != nil {
		return nil, err
	}
	return result.External(), nil
}
