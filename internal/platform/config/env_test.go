package config

import "testing"

func TestParseEnv(t *testing.T) {
	type cfg struct {
		Path string `env:"ARENA_TEST_DB_PATH" envDefault:"battles.db"`
		Port int    `env:"ARENA_TEST_PORT" envDefault:"8080"`
	}

	t.Setenv("ARENA_TEST_PORT", "9090")

	var c cfg
	if err := ParseEnv(&c); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if c.Path != "battles.db" {
		t.Fatalf("expected default path, got %q", c.Path)
	}
	if c.Port != 9090 {
		t.Fatalf("expected env override 9090, got %d", c.Port)
	}
}

func TestParseEnvInvalidValue(t *testing.T) {
	type cfg struct {
		Port int `env:"ARENA_TEST_BAD_PORT"`
	}

	t.Setenv("ARENA_TEST_BAD_PORT", "not-a-number")

	var c cfg
	if err := ParseEnv(&c); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}
