package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"

	"netorg/internal/config"
)

// dial establishes an SSH connection to the router
func dial(ctx context.Context, cfg config.DnsmasqConfig) (*ssh.Client, error) {
	clientConfig, err := buildSSHConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(cfg.Host, fmt.Sprint(port))

	dialer := &net.Dialer{Timeout: cfg.Timeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// buildSSHConfig prefers key auth when a key file is configured
func buildSSHConfig(cfg config.DnsmasqConfig) (*ssh.ClientConfig, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	var auth ssh.AuthMethod
	switch {
	case cfg.KeyFile != "":
		pem, err := os.ReadFile(config.ExpandHome(cfg.KeyFile))
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		var signer ssh.Signer
		if cfg.Password != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(cfg.Password))
		} else {
			signer, err = ssh.ParsePrivateKey(pem)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = ssh.PublicKeys(signer)
	case cfg.Password != "":
		auth = ssh.Password(cfg.Password)
	default:
		return nil, fmt.Errorf("ssh password or key_file is required")
	}

	return &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.Timeout(),
	}, nil
}

// runCommand executes cmd and returns its stdout. The session is killed
// when ctx ends first.
func runCommand(ctx context.Context, client *ssh.Client, cmd string) ([]byte, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.Output(cmd)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		var exitErr *ssh.ExitError
		if errors.As(r.err, &exitErr) {
			return nil, fmt.Errorf("%s exited with status %d", cmd, exitErr.ExitStatus())
		}
		if r.err != nil {
			return nil, fmt.Errorf("command failed: %w", r.err)
		}
		return r.out, nil
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return nil, fmt.Errorf("command timeout: %w", ctx.Err())
	}
}

// commandTimeout bounds a single remote command when none is configured
const commandTimeout = 30 * time.Second
