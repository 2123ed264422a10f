package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/fintrack.db",
		AMQPURL:      "amqp://broker",
		AMQPExchange: "fintrack",
		AMQPQueue:    "budget_alerts",
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend {
		t.Errorf("Type = %s, want sqlite", cfg.Type)
	}
	if cfg.SQLiteDBPath != "/tmp/fintrack.db" || cfg.AMQPQueue != "budget_alerts" {
		t.Errorf("config not carried over: %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("unknown backend type should fail")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil app config should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "/tmp/x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"bad type", Config{Type: "sheets"}, true},
		{"amqp without exchange", Config{Type: MemoryBackend, AMQPURL: "amqp://b", AMQPQueue: "q"}, true},
		{"amqp complete", Config{Type: MemoryBackend, AMQPURL: "amqp://b", AMQPExchange: "e", AMQPQueue: "q"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Store == nil {
		t.Fatal("memory backend should provide a store")
	}
	if result.AMQPClient != nil {
		t.Error("no AMQP URL means no AMQP client")
	}

	// Seeded default user must be reachable through the result.
	if _, err := result.Store.GetUser(context.Background(), 1); err != nil {
		t.Errorf("GetUser(1): %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			t.Errorf("Cleanup: %v", err)
		}
	}()

	if _, err := result.Store.GetUser(context.Background(), 1); err != nil {
		t.Errorf("GetUser(1): %v", err)
	}
}
