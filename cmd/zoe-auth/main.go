// Package main issues bearer tokens and API key hashes for operators.
//
//	zoe-auth token -user <uuid>    prints a signed access token
//	zoe-auth hash-key -key <key>   prints the bcrypt hash for auth.api_key_hash
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	"github.com/zoenutrition/zoe/internal/infrastructure/security"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: zoe-auth <token|hash-key> [flags]")
		return 2
	}

	switch args[0] {
	case "token":
		return issueToken(args[1:], stdout, stderr)
	case "hash-key":
		return hashKey(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 2
	}
}

func issueToken(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", os.Getenv("ZOE_CONFIG"), "Configuration file path")
	userID := fs.String("user", "", "User ID the token is issued for")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	id, err := uuid.Parse(*userID)
	if err != nil {
		fmt.Fprintln(stderr, "-user must be a valid UUID")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	token, expiresAt, err := security.NewAuthService(cfg.Auth, zap.NewNop()).IssueToken(id)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, token)
	fmt.Fprintf(stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
	return 0
}

func hashKey(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hash-key", flag.ContinueOnError)
	fs.SetOutput(stderr)
	key := fs.String("key", "", "API key to hash")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *key == "" {
		fmt.Fprintln(stderr, "-key is required")
		return 2
	}

	hash, err := security.HashAPIKey(*key, *cost)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, hash)
	return 0
}
