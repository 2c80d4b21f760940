package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"spotlike/internal/auth"
	"spotlike/internal/shared"
	tu "spotlike/internal/testing"
	"spotlike/internal/verify"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			client := &tu.MockLibraryClient{}
			cache := auth.NewTokenCache(t.TempDir() + "/token.json")
			authMgr := auth.NewManager(client, cache, &tu.MockPrompter{}, logger)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Client:  client,
				AuthMgr: authMgr,
				Cache:   cache,
				Logger:  logger,
				Output:  output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
			if err := runner.requireClient(); err != nil {
				t.Errorf("expected configured runner to pass the client guard, got %v", err)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
		})

		t.Run("without client leaves engine unset", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected no engine without a client")
			}
			if err := runner.requireClient(); err == nil {
				t.Error("expected the client guard to fail")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"track": "song"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := output.String(); got != "{\"track\":\"song\"}\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"track": "song"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "  \"track\": \"song\"") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})

		t.Run("failing writer", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("count: %d\n", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "count: 3\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("policyFromConfig", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Verification.MaxAttempts = 4
		config.Verification.BaseDelayMS = 250
		config.Verification.StepDelayMS = 100

		policy := policyFromConfig(config)
		want := verify.Policy{MaxAttempts: 4, BaseDelay: 250 * time.Millisecond, StepDelay: 100 * time.Millisecond}
		if policy != want {
			t.Errorf("expected %+v, got %+v", want, policy)
		}
	})
}

func TestIsLoopbackRedirect(t *testing.T) {
	cases := []struct {
		name string
		uri  string
		want bool
	}{
		{"ipv4 loopback", "http://127.0.0.1:8888/callback", true},
		{"localhost", "http://localhost:8888/callback", true},
		{"ipv6 loopback", "http://[::1]:8888/callback", true},
		{"remote host", "https://example.com/callback", false},
		{"empty", "", false},
		{"garbage", "://nope", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLoopbackRedirect(tc.uri); got != tc.want {
				t.Errorf("expected %v for %q, got %v", tc.want, tc.uri, got)
			}
		})
	}
}
