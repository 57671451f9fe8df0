// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a local container runtime (docker or podman) and
// runs conversion images with the PDF piped through stdin.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runtime runs throwaway containers through a local container CLI.
type Runtime interface {
	// Name returns the CLI binary, "docker" or "podman".
	Name() string

	// Available reports whether the CLI is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with networking disabled, streams stdin into it and
	// its standard output into stdout. Container stderr is folded into the
	// returned error.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// invocation is one command line. Argv[0] is the binary.
type invocation struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (inv invocation) String() string { return strings.Join(inv.Argv, " ") }

// shell resolves and runs invocations.
type shell interface {
	LookPath(bin string) error
	Run(ctx context.Context, inv invocation) error
}

type hostShell struct{}

func (hostShell) LookPath(bin string) error {
	_, err := exec.LookPath(bin)
	return err
}

func (hostShell) Run(ctx context.Context, inv invocation) error {
	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = inv.Stdin, inv.Stdout, inv.Stderr
	return cmd.Run()
}

// cli is a Runtime driven through a docker-compatible command line. The two
// supported CLIs differ only in how they test for a local image.
type cli struct {
	bin        string
	imageCheck []string
	sh         shell
}

// engines lists the supported CLIs in order of preference.
func engines(sh shell) []*cli {
	return []*cli{
		{bin: "docker", imageCheck: []string{"image", "inspect"}, sh: sh},
		{bin: "podman", imageCheck: []string{"image", "exists"}, sh: sh},
	}
}

func (c *cli) Name() string { return c.bin }

func (c *cli) argv(args ...string) []string {
	return append([]string{c.bin}, args...)
}

func (c *cli) Available(ctx context.Context) bool {
	if c.sh.LookPath(c.bin) != nil {
		return false
	}
	return c.sh.Run(ctx, invocation{Argv: c.argv("info")}) == nil
}

func (c *cli) ImageExists(ctx context.Context, image string) error {
	argv := c.argv(append(c.imageCheck[:len(c.imageCheck):len(c.imageCheck)], image)...)
	if err := c.sh.Run(ctx, invocation{Argv: argv}); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

func (c *cli) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	err := c.sh.Run(ctx, invocation{
		Argv:   c.argv("run", "--rm", "-i", "--network", "none", image),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: &stderr,
	})
	if err == nil {
		return nil
	}
	if detail := strings.TrimSpace(stderr.String()); detail != "" {
		return fmt.Errorf("running %s container %s: %w: %s", c.bin, image, err, detail)
	}
	return fmt.Errorf("running %s container %s: %w", c.bin, image, err)
}

// DetectRuntime returns docker when it is usable and podman otherwise.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detect(ctx, hostShell{})
}

func detect(ctx context.Context, sh shell) (Runtime, error) {
	var tried []string
	for _, c := range engines(sh) {
		if c.Available(ctx) {
			return c, nil
		}
		tried = append(tried, c.bin)
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(tried, ", "))
}
