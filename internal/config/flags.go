package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-d database DSN
//	-driver database driver (pgx or sqlite3)
//	-blob-dir blob store directory
//	-c/-config json file path with configs
//	-access-secret access token signing secret
//	-refresh-secret refresh token signing secret
//	-refresh-hash-key refresh token hash key
//	-token-issuer token issuer name
//	-access-ttl access token lifetime (e.g., "15m")
//	-refresh-ttl refresh token lifetime (e.g., "168h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-bcrypt-cost bcrypt work factor
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-org-site", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN, driver, blobDir string
	var jsonConfigPath string
	var accessSecret, refreshSecret, refreshHashKey, tokenIssuer string
	var accessTTL, refreshTTL, requestTimeout time.Duration
	var bcryptCost int

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&driver, "driver", "", "Database driver (pgx or sqlite3)")
	fs.StringVar(&blobDir, "blob-dir", "", "Blob store directory")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&accessSecret, "access-secret", "", "Access token signing secret")
	fs.StringVar(&refreshSecret, "refresh-secret", "", "Refresh token signing secret")
	fs.StringVar(&refreshHashKey, "refresh-hash-key", "", "Refresh token hash key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&accessTTL, "access-ttl", 0, "Access token lifetime (e.g., 15m)")
	fs.DurationVar(&refreshTTL, "refresh-ttl", 0, "Refresh token lifetime (e.g., 168h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			BcryptCost: bcryptCost,
		},
		Auth: Auth{
			AccessTokenSecret:   accessSecret,
			RefreshTokenSecret:  refreshSecret,
			RefreshTokenHashKey: refreshHashKey,
			TokenIssuer:         tokenIssuer,
			AccessTokenTTL:      accessTTL,
			RefreshTokenTTL:     refreshTTL,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
			Files: Files{
				BlobDir: blobDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
