package upload_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/fwboot/pkg/upload"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelError)
}

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  bool
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (upload.Output, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	if r.fail {
		return upload.Output{ExitCode: 1, Stderr: []byte("ERROR: share not found\n")}, errors.New("az exited with status 1")
	}
	return upload.Output{}, nil
}

func TestUploadConfig(t *testing.T) {
	runner := &fakeRunner{}
	az := upload.NewAzureFiles(runner, "acct", "key==")

	err := az.UploadConfig(context.Background(), "/tmp/out/upload/init-cfg-inbound.txt", "ib-share")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "az", runner.calls[0].name)
	assert.Equal(t, []string{
		"storage", "file", "upload",
		"--account-name", "acct",
		"--account-key", "key==",
		"--share-name", "ib-share",
		"--source", "/tmp/out/upload/init-cfg-inbound.txt",
		"--path", "config/init-cfg.txt",
	}, runner.calls[0].args)
}

func TestUploadConfigFailure(t *testing.T) {
	runner := &fakeRunner{fail: true}
	az := upload.NewAzureFiles(runner, "acct", "key==")

	err := az.UploadConfig(context.Background(), "cfg.txt", "ib-share")

	var uploadErr *upload.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "ib-share", uploadErr.Share)
	assert.Equal(t, 1, uploadErr.ExitCode)
	assert.Equal(t, "ERROR: share not found", uploadErr.Stderr)
	assert.Contains(t, err.Error(), "share not found")
}

func TestUploadLicenses(t *testing.T) {
	runner := &fakeRunner{}
	az := upload.NewAzureFiles(runner, "acct", "key==")

	result := az.UploadLicenses(context.Background(), "/tmp/out/license", "ob-share")
	assert.True(t, result.OK())
	assert.Equal(t, "ob-share", result.Share)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"storage", "file", "upload-batch",
		"--account-name", "acct",
		"--account-key", "key==",
		"--destination", "ob-share",
		"--source", "/tmp/out/license",
		"--destination-path", "license",
	}, runner.calls[0].args)
}

func TestUploadLicensesFailureIsNotPropagated(t *testing.T) {
	runner := &fakeRunner{fail: true}
	az := upload.NewAzureFiles(runner, "acct", "key==")

	result := az.UploadLicenses(context.Background(), "/tmp/out/license", "ob-share")
	assert.False(t, result.OK())

	var uploadErr *upload.UploadError
	assert.ErrorAs(t, result.Err, &uploadErr)
	assert.Equal(t, result.Err.Error(), result.Failure)
}

func TestCustomBinary(t *testing.T) {
	runner := &fakeRunner{}
	az := upload.NewAzureFiles(runner, "acct", "key")
	az.Binary = "/opt/az/bin/az"

	require.NoError(t, az.UploadConfig(context.Background(), "cfg.txt", "share"))
	assert.Equal(t, "/opt/az/bin/az", runner.calls[0].name)
}

func TestExecRunner(t *testing.T) {
	runner := upload.ExecRunner{}

	out, err := runner.Run(context.Background(), "sh", "-c", "echo ok")
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "ok\n", string(out.Stdout))

	out, err = runner.Run(context.Background(), "sh", "-c", "echo bad >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "bad\n", string(out.Stderr))

	_, err = runner.Run(context.Background(), "/nonexistent/az")
	assert.Error(t, err)
}
