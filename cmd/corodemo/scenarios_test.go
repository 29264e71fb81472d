package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/stealthrocket/coro"
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		scenario string
		cfg      config
		want     []string
	}{
		{
			scenario: "generator",
			cfg:      config{start: 10, count: 3, parallel: 1},
			want:     []string{"10", "11", "12"},
		},
		{
			scenario: "pingpong",
			cfg:      config{count: 2, parallel: 1},
			want: []string{
				"produced: 0",
				"consumer started with 0",
				"produced: 1",
				"consumed: 1",
				"consumed: -1",
			},
		},
		{
			scenario: "symmetric",
			cfg:      config{parallel: 1},
			want: []string{
				"main started with 0",
				"p2 started with 3",
				"p1 started with 2",
				"p0 started with 1",
				"p2 resumed with 0",
				"p0 resumed with 2",
				"main ended with 102",
			},
		},
		{
			scenario: "soak",
			cfg:      config{hops: 1000, parallel: 3},
			want: []string{
				"group 0: 1000 hops",
				"group 1: 1000 hops",
				"group 2: 1000 hops",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			if err := test.cfg.validate(); err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			if err := scenarios[test.scenario](&out, test.cfg); err != nil {
				t.Fatal(err)
			}

			got := strings.Split(strings.TrimSpace(out.String()), "\n")
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("wrong output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	for _, cfg := range []config{
		{count: -1, parallel: 1},
		{hops: -1, parallel: 1},
		{parallel: 0},
	} {
		if err := cfg.validate(); err == nil {
			t.Errorf("expected %+v to be invalid", cfg)
		}
	}
}

func TestFormatError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		assert.Equal(t, "boom", formatError(errors.New("boom")))
	})

	t.Run("panic", func(t *testing.T) {
		c := coro.New(func(*coro.Scope[int, int], int) (int, error) {
			panic("kaboom")
		}, coro.WithName("crasher"))

		_, err := c.Resume(0)
		if !errors.Is(err, coro.ErrBodyFailure) {
			t.Fatalf("wrong error: %v", err)
		}

		out := formatError(err)
		assert.True(t, strings.HasPrefix(out, err.Error()+"\n\n"), out)
		assert.Contains(t, out, "panic: kaboom")
		assert.Contains(t, out, "goroutine ")
		assert.Contains(t, out, "TestFormatError")
	})
}
