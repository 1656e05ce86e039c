package session

import (
	"context"
	"fmt"
	"net"
	"time"

	"netlens/internal/domain"

	"golang.org/x/crypto/ssh"
)

// SSHDialer connects to devices over SSH.
// Supports both password and key-based authentication.
type SSHDialer struct{}

// NewSSHDialer creates the production dialer.
func NewSSHDialer() *SSHDialer {
	return &SSHDialer{}
}

// Dial establishes an SSH connection to the device's management address.
func (d *SSHDialer) Dial(ctx context.Context, device *domain.Device, timeout time.Duration) (Conn, error) {
	config, err := buildSSHConfig(device, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := device.Address()

	dialer := &net.Dialer{
		Timeout: timeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	return &sshTransport{client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

// buildSSHConfig creates an SSH client config from device credentials.
// Private key wins when both key and password are present.
func buildSSHConfig(device *domain.Device, timeout time.Duration) (*ssh.ClientConfig, error) {
	creds := device.Creds
	if creds.Username == "" {
		return nil, fmt.Errorf("device %s has no username", device.Name)
	}

	var auth []ssh.AuthMethod
	switch {
	case creds.PrivateKey != "":
		var signer ssh.Signer
		var err error
		if creds.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase([]byte(creds.PrivateKey), []byte(creds.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey([]byte(creds.PrivateKey))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	case creds.Password != "":
		auth = append(auth, ssh.Password(creds.Password))
	default:
		return nil, fmt.Errorf("device %s has no usable credentials", device.Name)
	}

	return &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}, nil
}

// sshTransport adapts an ssh.Client to the Conn interface.
type sshTransport struct {
	client *ssh.Client
}

// Run executes one command over a fresh SSH channel.
func (t *sshTransport) Run(ctx context.Context, command string) (string, error) {
	sess, err := t.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close()

	done := make(chan error, 1)
	var output []byte

	go func() {
		var runErr error
		output, runErr = sess.CombinedOutput(command)
		done <- runErr
	}()

	select {
	case err := <-done:
		if err != nil {
			// Non-zero exit still produced output worth keeping; some device
			// CLIs exit non-zero on informational commands.
			if _, ok := err.(*ssh.ExitError); ok {
				return string(output), nil
			}
			return "", fmt.Errorf("command failed: %w", err)
		}
		return string(output), nil
	case <-ctx.Done():
		sess.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	}
}

// Close tears down the SSH connection.
func (t *sshTransport) Close() error {
	return t.client.Close()
}
