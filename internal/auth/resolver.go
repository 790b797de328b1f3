// Package auth resolves the GitHub token from multiple sources in
// priority order.
package auth

import (
	"fmt"
	"os"
	"strings"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

// Source indicates where a token was found.
type Source string

const (
	SourceFlag Source = "flag"
	SourceEnv  Source = "env"
	SourceCLI  Source = "cli"
	SourceNone Source = "none"
)

// Result contains the resolved token and its source.
type Result struct {
	Token  string
	Source Source
	Name   string // specific source name, e.g. "GITHUB_TOKEN" or "gh"
}

// TokenProvider attempts to provide a token. An empty token means the
// source had nothing; errors are for unexpected failures only.
type TokenProvider func() (token string, sourceName string, err error)

// Resolver checks token sources in registration order.
type Resolver struct {
	providers   []TokenProvider
	helpMessage string
}

// NewResolver creates an empty token resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// WithFlagValue adds an explicit flag-provided token (highest priority
// when registered first).
func (r *Resolver) WithFlagValue(value string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if value != "" {
			return value, "flag", nil
		}
		return "", "", nil
	})
	return r
}

// WithEnvs adds environment variables as token sources, checked in order.
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		name := envVar
		r.providers = append(r.providers, func() (string, string, error) {
			if token := os.Getenv(name); token != "" {
				return token, name, nil
			}
			return "", "", nil
		})
	}
	return r
}

// WithGHCLI adds the gh CLI's stored credentials as a token source.
func (r *Resolver) WithGHCLI(host string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		token, _ := ghauth.TokenForHost(host)
		if token != "" {
			return token, "gh", nil
		}
		return "", "", nil
	})
	return r
}

// WithHelpMessage sets the hint shown when no token is found.
func (r *Resolver) WithHelpMessage(msg string) *Resolver {
	r.helpMessage = msg
	return r
}

// Resolve returns the first token any source yields.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		token, sourceName, err := provider()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}

		if token != "" {
			return &Result{
				Token:  token,
				Source: categorizeSource(sourceName),
				Name:   sourceName,
			}, nil
		}
	}

	if r.helpMessage != "" {
		return nil, fmt.Errorf("GitHub token required\n\n%s", r.helpMessage)
	}

	return nil, fmt.Errorf("GitHub token required")
}

func categorizeSource(name string) Source {
	switch {
	case name == "flag":
		return SourceFlag
	case name == "gh":
		return SourceCLI
	case strings.Contains(name, "TOKEN"):
		return SourceEnv
	default:
		return SourceNone
	}
}

const tokenHelp = `Provide a token one of these ways:
  * pass --token
  * set GITHUB_TOKEN or GH_TOKEN
  * run "gh auth login" so the gh CLI stores credentials

Unauthenticated search is heavily rate limited by the GitHub API.`

// ResolveGitHubToken checks the flag value, then GITHUB_TOKEN and
// GH_TOKEN, then the gh CLI keyring.
func ResolveGitHubToken(flagToken string) (*Result, error) {
	return NewResolver().
		WithFlagValue(flagToken).
		WithEnvs("GITHUB_TOKEN", "GH_TOKEN").
		WithGHCLI("github.com").
		WithHelpMessage(tokenHelp).
		Resolve()
}
