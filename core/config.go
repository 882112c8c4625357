package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		Build        string
		AppName      string
		RollbarToken string

		Server   ServerConfig
		Storage  StorageConfig
		Uploads  UploadsConfig
		Export   ExportConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Driver           string // file | postgres | memory
		DataDir          string
		AutosaveInterval time.Duration
		MaxSnapshots     int
	}

	UploadsConfig struct {
		Dir      string
		MaxBytes int64
		MaxWidth int
	}

	ExportConfig struct {
		OutputDir  string
		PDFEnabled bool
		FontFile   string // optional UTF-8 TTF used by the PDF backend
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if any) and the environment.
// Environment variables are prefixed with the uppercased env name, e.g. `DEV_STORAGE_DRIVER`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Guidebook")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dataDir", "data")
	v.SetDefault("storage.autosaveInterval", 5*time.Second)
	v.SetDefault("storage.maxSnapshots", 10)

	v.SetDefault("uploads.dir", filepath.Join("data", "images"))
	v.SetDefault("uploads.maxBytes", int64(10<<20))
	v.SetDefault("uploads.maxWidth", 1600)

	v.SetDefault("export.outputDir", filepath.Join("data", "output"))
	v.SetDefault("export.pdfEnabled", true)
	v.SetDefault("export.fontFile", "")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "guidebook")
	v.SetDefault("database.password", "guidebook")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "guidebook")
	v.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("storage.driver", "memory")
		v.SetDefault("server.disableReqLogs", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Driver:           v.GetString("storage.driver"),
			DataDir:          v.GetString("storage.dataDir"),
			AutosaveInterval: v.GetDuration("storage.autosaveInterval"),
			MaxSnapshots:     v.GetInt("storage.maxSnapshots"),
		},
		Uploads: UploadsConfig{
			Dir:      v.GetString("uploads.dir"),
			MaxBytes: v.GetInt64("uploads.maxBytes"),
			MaxWidth: v.GetInt("uploads.maxWidth"),
		},
		Export: ExportConfig{
			OutputDir:  v.GetString("export.outputDir"),
			PDFEnabled: v.GetBool("export.pdfEnabled"),
			FontFile:   v.GetString("export.fontFile"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
	}
}
