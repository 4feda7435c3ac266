package launcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalczyk/dockerop/pkg/environment"
)

// fakeAPI stands in for the Docker daemon, recording the calls Launch makes.
type fakeAPI struct {
	exitCode int64
	waitErr  error
	logs     string
	logsErr  error

	imageMissing bool
	pulled       bool
	removed      bool
	logsFetched  bool

	createConfig *container.Config
	createHost   *container.HostConfig
}

func (f *fakeAPI) ImageInspect(_ context.Context, _ string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	if f.imageMissing {
		return image.InspectResponse{}, fmt.Errorf("no such image")
	}
	return image.InspectResponse{}, nil
}

func (f *fakeAPI) ImagePull(_ context.Context, _ string, _ image.PullOptions) (io.ReadCloser, error) {
	f.pulled = true
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeAPI) ContainerCreate(_ context.Context, config *container.Config, hostConfig *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	f.createConfig = config
	f.createHost = hostConfig
	return container.CreateResponse{ID: "c-1"}, nil
}

func (f *fakeAPI) ContainerStart(_ context.Context, _ string, _ container.StartOptions) error {
	return nil
}

func (f *fakeAPI) ContainerWait(_ context.Context, _ string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	if f.waitErr != nil {
		errCh <- f.waitErr
	} else {
		statusCh <- container.WaitResponse{StatusCode: f.exitCode}
	}
	return statusCh, errCh
}

func (f *fakeAPI) ContainerRemove(_ context.Context, _ string, _ container.RemoveOptions) error {
	f.removed = true
	return nil
}

func (f *fakeAPI) ContainerLogs(_ context.Context, _ string, _ container.LogsOptions) (io.ReadCloser, error) {
	f.logsFetched = true
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return io.NopCloser(strings.NewReader(f.logs)), nil
}

func testRequest() *Request {
	return &Request{
		Image:       "etl:latest",
		Command:     []string{"python", "run.py"},
		Env:         environment.FromPairs("A", "1"),
		TTY:         true,
		NetworkMode: "host",
		AutoRemove:  AutoRemoveSuccess,
	}
}

func TestLaunch_Success(t *testing.T) {
	api := &fakeAPI{exitCode: 0}
	d := &DockerLauncher{api: api}

	result, err := d.Launch(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "c-1", result.ContainerID)
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.Skipped)
	assert.True(t, api.removed)
	assert.False(t, api.logsFetched)

	require.NotNil(t, api.createConfig)
	assert.Equal(t, "etl:latest", api.createConfig.Image)
	assert.Equal(t, []string{"python", "run.py"}, []string(api.createConfig.Cmd))
	assert.Equal(t, []string{"A=1"}, api.createConfig.Env)
	assert.True(t, api.createConfig.Tty)
	assert.Equal(t, container.NetworkMode("host"), api.createHost.NetworkMode)
}

func TestLaunch_PullsMissingImage(t *testing.T) {
	api := &fakeAPI{imageMissing: true}
	d := &DockerLauncher{api: api}

	_, err := d.Launch(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, api.pulled)
}

func TestLaunch_SkipExitCode(t *testing.T) {
	api := &fakeAPI{exitCode: 99}
	d := &DockerLauncher{api: api}

	req := testRequest()
	req.SkipExitCode = intPtr(99)

	result, err := d.Launch(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 99, result.ExitCode)
	// A skipped run counts as clean for the success policy.
	assert.True(t, api.removed)
}

func TestLaunch_Failure_TailsLogsAndKeepsContainer(t *testing.T) {
	api := &fakeAPI{exitCode: 1, logs: "Traceback: boom\n"}
	d := &DockerLauncher{api: api}

	result, err := d.Launch(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container c-1 exited with code 1")
	assert.Contains(t, err.Error(), "Traceback: boom")

	require.NotNil(t, result)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, "Traceback: boom", result.StdoutTail)
	assert.False(t, api.removed)
}

func TestLaunch_Failure_LogErrorDoesNotMaskExitCode(t *testing.T) {
	api := &fakeAPI{exitCode: 1, logsErr: fmt.Errorf("daemon gone")}
	d := &DockerLauncher{api: api}

	result, err := d.Launch(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 1")
	assert.Empty(t, result.StdoutTail)
}

func TestLaunch_Failure_ForceRemoves(t *testing.T) {
	api := &fakeAPI{exitCode: 1}
	d := &DockerLauncher{api: api}

	req := testRequest()
	req.AutoRemove = AutoRemoveForce

	_, err := d.Launch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, api.removed)
}

func TestLaunch_WaitError_ForceRemoves(t *testing.T) {
	api := &fakeAPI{waitErr: fmt.Errorf("daemon gone")}
	d := &DockerLauncher{api: api}

	req := testRequest()
	req.AutoRemove = AutoRemoveForce

	result, err := d.Launch(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed waiting for container c-1")
	assert.Nil(t, result)
	assert.True(t, api.removed)
}

func TestLaunch_WaitError_SuccessPolicyKeepsContainer(t *testing.T) {
	api := &fakeAPI{waitErr: fmt.Errorf("daemon gone")}
	d := &DockerLauncher{api: api}

	_, err := d.Launch(context.Background(), testRequest())
	require.Error(t, err)
	assert.False(t, api.removed)
}
