package launcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// logTailLines bounds how much of a failed container's output is carried
// into the launch error.
const logTailLines = "20"

// containerAPI is the slice of the Docker client the launcher depends on.
type containerAPI interface {
	ImageInspect(ctx context.Context, ref string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
	ImagePull(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, opts container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerRemove(ctx context.Context, containerID string, opts container.RemoveOptions) error
	ContainerLogs(ctx context.Context, containerID string, opts container.LogsOptions) (io.ReadCloser, error)
}

// DockerLauncher implements Launcher using the Docker SDK.
type DockerLauncher struct {
	api containerAPI
}

// NewDockerLauncher creates a Docker-based launcher. The client is
// initialized from the standard environment variables (DOCKER_HOST, etc.).
func NewDockerLauncher() (*DockerLauncher, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerLauncher{api: cli}, nil
}

// NewDockerLauncherWithClient creates a launcher over an existing client.
func NewDockerLauncherWithClient(cli *client.Client) *DockerLauncher {
	return &DockerLauncher{api: cli}
}

// Launch pulls the image if absent, runs the container to completion and
// applies the request's auto-remove policy. An exit code matching
// SkipExitCode yields a skipped result instead of an error; on any other
// non-zero exit the tail of the container's logs is fetched into the result
// and the error before removal is considered.
func (d *DockerLauncher) Launch(ctx context.Context, req *Request) (*Result, error) {
	if err := d.ensureImage(ctx, req.Image); err != nil {
		return nil, err
	}

	containerConfig := &container.Config{
		Image: req.Image,
		Cmd:   req.Command,
		Env:   req.Env.Environ(),
		Tty:   req.TTY,
	}
	hostConfig := &container.HostConfig{
		NetworkMode: container.NetworkMode(req.NetworkMode),
	}

	created, err := d.api.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	if err := d.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start container %s: %w", created.ID, err)
	}

	exitCode, waitErr := d.wait(ctx, created.ID)
	if waitErr != nil {
		// The exit status is unknown; only the force policy removes here.
		if ShouldRemove(req.AutoRemove, nil) {
			d.remove(ctx, created.ID)
		}
		return nil, waitErr
	}

	result, err := req.Outcome(created.ID, exitCode)
	if err != nil {
		if tail := d.logTail(ctx, created.ID); tail != "" {
			result.StdoutTail = tail
			err = fmt.Errorf("%w: %s", err, tail)
		}
	}

	if ShouldRemove(req.AutoRemove, result) {
		d.remove(ctx, created.ID)
	}
	return result, err
}

func (d *DockerLauncher) ensureImage(ctx context.Context, img string) error {
	// Check locally first to avoid a pull round-trip.
	_, err := d.api.ImageInspect(ctx, img)
	if err == nil {
		return nil
	}

	reader, err := d.api.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", img, err)
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return nil
}

func (d *DockerLauncher) wait(ctx context.Context, containerID string) (int, error) {
	statusCh, errCh := d.api.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	select {
	case err := <-errCh:
		return -1, fmt.Errorf("failed waiting for container %s: %w", containerID, err)
	case status := <-statusCh:
		if status.Error != nil {
			return int(status.StatusCode), fmt.Errorf("container %s failed: %s", containerID, status.Error.Message)
		}
		return int(status.StatusCode), nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

func (d *DockerLauncher) remove(ctx context.Context, containerID string) {
	if err := d.api.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		log.Printf("Failed to remove container %s: %v", containerID, err)
	}
}

// logTail fetches the last lines of a container's output for failure
// reporting. Log errors are swallowed; the exit code already tells the story.
func (d *DockerLauncher) logTail(ctx context.Context, containerID string) string {
	reader, err := d.Logs(ctx, containerID)
	if err != nil {
		return ""
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Logs streams the stdout/stderr tail of a container.
func (d *DockerLauncher) Logs(ctx context.Context, containerID string) (io.ReadCloser, error) {
	return d.api.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       logTailLines,
	})
}
