package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateEnv points ENV_FILE at a missing file so a developer's local
// .secrets/.env never leaks into assertions.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DISCORD_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)
	for _, key := range []string{"DB_DRIVER", "DB_URL", "SSL_CURRENT_SEASON", "SSL_API_BASE_URL", "RENDER_WORKERS", "FONT_PATH", "ASSETS_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDriver != DBDriverSQLite {
		t.Fatalf("unexpected default DB driver %q", cfg.DBDriver)
	}
	if cfg.CurrentSeason != 23 {
		t.Fatalf("unexpected default season %d", cfg.CurrentSeason)
	}
	if cfg.SSLAPIBaseURL != "https://api.simulationsoccer.com" {
		t.Fatalf("unexpected default SSL API base url %q", cfg.SSLAPIBaseURL)
	}
	if cfg.FontPath != "./fonts/GOTHAM-BOLD.TTF" || cfg.AssetsDir != "." {
		t.Fatalf("unexpected asset defaults font=%q assets=%q", cfg.FontPath, cfg.AssetsDir)
	}
	if cfg.RenderWorkers != 0 || cfg.RenderTimeout != 20*time.Second {
		t.Fatalf("unexpected render defaults workers=%d timeout=%s", cfg.RenderWorkers, cfg.RenderTimeout)
	}
}

func TestLoad_EnvFileFillsUnsetKeys(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "SSL_MAIN_SERVER_ID=123456\nSSL_CURRENT_SEASON=26\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("SSL_CURRENT_SEASON", "25")
	t.Setenv("SSL_MAIN_SERVER_ID", "")
	_ = os.Unsetenv("SSL_MAIN_SERVER_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SSLMainServerID != "123456" {
		t.Fatalf("expected server id from env file, got %q", cfg.SSLMainServerID)
	}
	if cfg.CurrentSeason != 25 {
		t.Fatalf("process env must win over env file, got season %d", cfg.CurrentSeason)
	}
}

func TestLoad_DBDriverValidation(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported DB_DRIVER")
	}

	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_URL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDriver != DBDriverPostgres {
		t.Fatalf("unexpected DB driver %q", cfg.DBDriver)
	}
	if cfg.DBURL == "" {
		t.Fatalf("expected postgres default DB URL")
	}
}

func TestLoad_DiscordRequiresKeysWhenEnabled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DISCORD_ENABLED", "true")
	t.Setenv("DISCORD_PUBLIC_KEY", "")
	t.Setenv("DISCORD_APPLICATION_ID", "42")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DISCORD_ENABLED=true without DISCORD_PUBLIC_KEY")
	}

	t.Setenv("DISCORD_PUBLIC_KEY", "abcd")
	t.Setenv("DISCORD_API_BASE_URL", "https://discord.test/api/v10/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DiscordAPIBaseURL != "https://discord.test/api/v10" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.DiscordAPIBaseURL)
	}
}

func TestLoad_SSLAPIConfigParsing(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SSL_API_TIMEOUT", "7s")
	t.Setenv("SSL_API_MAX_RETRIES", "4")
	t.Setenv("SSL_API_CIRCUIT_FAILURE_COUNT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SSLAPITimeout != 7*time.Second || cfg.SSLAPIMaxRetries != 4 || cfg.SSLAPICircuitFailureCount != 3 {
		t.Fatalf("unexpected SSL API config: %+v", cfg)
	}

	t.Setenv("SSL_API_TIMEOUT", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero SSL_API_TIMEOUT")
	}
}

func TestLoad_LogFileParsing(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LOG_FILE", "/var/log/ssl-bot.log")
	t.Setenv("LOG_FILE_MAX_SIZE_MB", "10")
	t.Setenv("LOG_FILE_COMPRESS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogFile.Path != "/var/log/ssl-bot.log" || cfg.LogFile.MaxSizeMB != 10 || cfg.LogFile.Compress {
		t.Fatalf("unexpected log file config: %+v", cfg.LogFile)
	}
}

func TestLoad_ProdRequiresAdminToken(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ADMIN_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ADMIN_TOKEN is missing in prod")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_SERVICE_NAME", "ssl-bot-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "ssl-bot-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_DatabaseAndDocsFlags(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SWAGGER_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	t.Setenv("DISCORD_JOB_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled")
	}
	if cfg.DBMaxOpenConns != 8 || !cfg.DBDisablePreparedBinaryResult {
		t.Fatalf("unexpected db settings max_open=%d disable_binary=%v", cfg.DBMaxOpenConns, cfg.DBDisablePreparedBinaryResult)
	}
	if cfg.DiscordJobTimeout != 45*time.Second {
		t.Fatalf("unexpected discord job timeout %s", cfg.DiscordJobTimeout)
	}

	t.Setenv("DB_MAX_OPEN_CONNS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for DB_MAX_OPEN_CONNS=0")
	}
}
