package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/internal/appconfig"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var tunnelCmd = &cobra.Command{
	Use:   "db-tunnel",
	Short: "Forward a local port to the hosted database through an SSH bastion",
	Run: func(cmd *cobra.Command, args []string) {
		setLogging(logLevel)

		cfg, err := appconfig.LoadConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := StartSSHTunnel(ctx, cfg.Tunnel); err != nil {
			log.Fatal().Err(err).Msg("ssh tunnel failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(tunnelCmd)
}

// SSHClient connects to the bastion with the configured private key
func SSHClient(cfg appconfig.TunnelConfig) (*ssh.Client, error) {
	key, err := os.ReadFile(cfg.SSHKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHosts != "" {
		hostKeyCallback, err = knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("unable to load known hosts: %w", err)
		}
	} else {
		log.Warn().Msg("tunnel.knownHosts is not set, the bastion host key is not verified")
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.SSHUser,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         5 * time.Second,
	}

	port := cfg.SSHPort
	if port == "" {
		port = "22"
	}
	return ssh.Dial("tcp", net.JoinHostPort(cfg.SSHHost, port), sshConfig)
}

// ForwardTraffic forwards each accepted local connection to the remote host
// until the listener is closed.
func ForwardTraffic(localListener net.Listener, client *ssh.Client, cfg appconfig.TunnelConfig) {
	remote := net.JoinHostPort(cfg.RemoteHost, cfg.RemotePort)

	for {
		localConn, err := localListener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Error().Err(err).Msg("failed to accept local connection")
			continue
		}

		remoteConn, err := client.Dial("tcp", remote)
		if err != nil {
			log.Error().Err(err).Str("remote", remote).Msg("failed to connect to remote host")
			localConn.Close()
			continue
		}

		go pipe(localConn, remoteConn)
	}
}

func pipe(a, b net.Conn) {
	defer a.Close()
	defer b.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(a, b)
		a.Close()
	}()
	go func() {
		defer wg.Done()
		io.Copy(b, a)
		b.Close()
	}()
	wg.Wait()
}

// StartSSHTunnel opens the tunnel and blocks until ctx is cancelled
func StartSSHTunnel(ctx context.Context, cfg appconfig.TunnelConfig) error {
	client, err := SSHClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	localPort := cfg.LocalPort
	if localPort == "" {
		localPort = "5433"
	}

	localListener, err := net.Listen("tcp", net.JoinHostPort("localhost", localPort))
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		localListener.Close()
	}()

	log.Info().Str("local_port", localPort).Str("remote_host", cfg.RemoteHost).Str("remote_port", cfg.RemotePort).
		Msg("SSH tunnel started")

	ForwardTraffic(localListener, client, cfg)
	return nil
}
