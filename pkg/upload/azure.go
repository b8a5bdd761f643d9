package upload

import (
	"context"
	"log/slog"

	"github.com/isometry/fwboot/pkg/utils"
)

const (
	DefaultBinary = "az"

	// ConfigDestination is where PAN-OS expects the init-cfg inside a bootstrap share.
	ConfigDestination = "config/init-cfg.txt"
	// LicenseDestination is the license directory inside a bootstrap share.
	LicenseDestination = "license"
)

// AzureFiles uploads to Azure Files shares of a single storage account.
type AzureFiles struct {
	Runner      Runner
	Binary      string
	AccountName string
	AccountKey  string
}

func NewAzureFiles(runner Runner, accountName, accountKey string) *AzureFiles {
	return &AzureFiles{
		Runner:      runner,
		Binary:      DefaultBinary,
		AccountName: accountName,
		AccountKey:  accountKey,
	}
}

func (a *AzureFiles) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("binary", a.binary()),
		slog.String("accountName", a.AccountName),
	)
}

func (a *AzureFiles) binary() string {
	return utils.Coalesce(a.Binary, DefaultBinary)
}

func (a *AzureFiles) runner() Runner {
	if a.Runner == nil {
		return ExecRunner{}
	}
	return a.Runner
}

// ConfigArgs returns the az arguments for a single-file config upload.
func (a *AzureFiles) ConfigArgs(path, share string) []string {
	return []string{
		"storage", "file", "upload",
		"--account-name", a.AccountName,
		"--account-key", a.AccountKey,
		"--share-name", share,
		"--source", path,
		"--path", ConfigDestination,
	}
}

// LicenseArgs returns the az arguments for a batch license upload.
func (a *AzureFiles) LicenseArgs(dir, share string) []string {
	return []string{
		"storage", "file", "upload-batch",
		"--account-name", a.AccountName,
		"--account-key", a.AccountKey,
		"--destination", share,
		"--source", dir,
		"--destination-path", LicenseDestination,
	}
}

// UploadConfig uploads the init-cfg at path to share.
func (a *AzureFiles) UploadConfig(ctx context.Context, path, share string) error {
	log := utils.ContextLogger(ctx, slog.String("context", "upload"), slog.String("share", share), slog.String("source", path))
	log.Debug("uploading config")

	out, err := a.runner().Run(ctx, a.binary(), a.ConfigArgs(path, share)...)
	if err != nil {
		uploadErr := &UploadError{
			Share:    share,
			Source:   path,
			ExitCode: out.ExitCode,
			Stderr:   trimOutput(out.Stderr),
			Err:      err,
		}
		log.Error("config upload failed", slog.Any("error", uploadErr))
		return uploadErr
	}

	log.Info("config uploaded")
	return nil
}

// UploadLicenses uploads the contents of dir to the license directory of
// share. Failures are reported in the Result only.
func (a *AzureFiles) UploadLicenses(ctx context.Context, dir, share string) Result {
	log := utils.ContextLogger(ctx, slog.String("context", "upload"), slog.String("share", share), slog.String("source", dir))
	log.Debug("uploading licenses")

	result := Result{Share: share, Source: dir}
	out, err := a.runner().Run(ctx, a.binary(), a.LicenseArgs(dir, share)...)
	if err != nil {
		result.Err = &UploadError{
			Share:    share,
			Source:   dir,
			ExitCode: out.ExitCode,
			Stderr:   trimOutput(out.Stderr),
			Err:      err,
		}
		result.Failure = result.Err.Error()
		log.Warn("license upload failed, continuing", slog.Any("error", result.Err))
		return result
	}

	log.Info("licenses uploaded")
	return result
}
