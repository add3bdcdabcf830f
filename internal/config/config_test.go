package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppSecretValueValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   AppSecretValue
		wantErr bool
	}{
		{
			name:  "32 byte secret",
			value: AppSecretValue(strings.Repeat("a", 32)),
		},
		{
			name:  "longer secret",
			value: AppSecretValue(strings.Repeat("a", 64)),
		},
		{
			name:    "too short",
			value:   AppSecretValue("short"),
			wantErr: true,
		},
		{
			name:    "empty",
			value:   AppSecretValue(""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllOrNothing(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		db      Database
		wantErr bool
	}{
		{
			name: "all fields set",
			db: Database{
				Port:     5432,
				Host:     "localhost",
				Database: "foodgram",
				User:     "foodgram",
				Password: "secret",
			},
		},
		{
			name: "all fields empty",
			db:   Database{},
		},
		{
			name: "mixed state fails",
			db: Database{
				Host: "localhost",
				User: "foodgram",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.db)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	configPath := filepath.Join(dir, "foodgram.yaml")

	contents := `
app_secret:
  path: ` + secretPath + `
database:
  port: 5432
  host: localhost
  database: foodgram
  user: foodgram
  password: secret
fileserver:
  backend: local
  volume: ` + dir + `
host_origin: http://localhost:8080
env: DEV
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := loadConfigFromFile(configPath)
	if err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}

	if conf.Database.Database != "foodgram" {
		t.Errorf("Database = %q", conf.Database.Database)
	}
	if conf.Fileserver.Backend != FilestoreLocal {
		t.Errorf("Backend = %q", conf.Fileserver.Backend)
	}
	if conf.Fileserver.URLPrefix != "/files" {
		t.Errorf("URLPrefix = %q, want default", conf.Fileserver.URLPrefix)
	}
	if conf.AppSecret.Version != "1" {
		t.Errorf("Version = %q, want default", conf.AppSecret.Version)
	}

	// A missing secret file is generated on first load.
	if conf.AppSecret.Value == nil {
		t.Fatal("AppSecret.Value is nil")
	}
	if err := conf.AppSecret.Value.Validate(); err != nil {
		t.Errorf("generated secret failed validation: %v", err)
	}
	data, err := os.ReadFile(secretPath)
	if err != nil {
		t.Fatalf("secret file was not written: %v", err)
	}
	if string(data) != string(*conf.AppSecret.Value) {
		t.Error("secret file content does not match the loaded value")
	}
}

func TestLoadConfigFromFile_ReadsExistingSecret(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	secret := strings.Repeat("s", 32)
	if err := os.WriteFile(secretPath, []byte(secret), 0o600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}

	configPath := filepath.Join(dir, "foodgram.yaml")
	contents := "app_secret:\n  path: " + secretPath + "\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := loadConfigFromFile(configPath)
	if err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}
	if conf.AppSecret.Value == nil || string(*conf.AppSecret.Value) != secret {
		t.Errorf("AppSecret.Value = %v, want the stored secret", conf.AppSecret.Value)
	}
}

func TestLoadConfigFromFile_IncompleteS3(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "foodgram.yaml")
	contents := `
app_secret:
  path: ` + filepath.Join(dir, "secret") + `
fileserver:
  backend: s3
  s3:
    endpoint: localhost:9000
    bucket: foodgram
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := loadConfigFromFile(configPath); err == nil {
		t.Error("expected an error for a partially configured S3 backend")
	}
}
