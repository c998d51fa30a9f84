package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

// Database engines
const (
	EnginePostgres = "postgres"
	EngineMongo    = "mongo"
	EngineMemory   = "memory"
)

// Session stores
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Env          string
	Build        string
	AppName      string
	Debug        bool
	TestMode     bool
	RollbarToken string

	Server struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		AllowedOrigins  []string
		BodyLimit       string
	}

	Database struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		MongoURI      string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Session struct {
		Store      string
		CookieName string
		TTL        time.Duration
		Secure     bool
	}

	Storage struct {
		UploadDir string
		URLPrefix string
	}
}

// DatabaseAddress returns the "host:port" of the SQL database.
func (c Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

// Validate checks the settings every app needs before wiring anything.
func (c *Config) Validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Server.Address, "server.address"),
		vala.StringNotEmpty(c.Database.Engine, "database.engine"),
		vala.StringNotEmpty(c.Session.Store, "session.store"),
		vala.StringNotEmpty(c.Session.CookieName, "session.cookieName"),
		vala.StringNotEmpty(c.Storage.UploadDir, "storage.uploadDir"),
		vala.StringNotEmpty(c.Storage.URLPrefix, "storage.urlPrefix"),
	).Check()
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "CodeHub")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":10000")
	v.SetDefault("server.debugAddress", ":10001")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:5173", "https://class-codehub.vercel.app"})
	v.SetDefault("server.bodyLimit", "64M")

	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "codehub")
	v.SetDefault("database.user", "codehub")
	v.SetDefault("database.password", "codehub")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.mongoURI", "mongodb://localhost:27017")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.store", SessionStoreRedis)
	v.SetDefault("session.cookieName", "codehub.sid")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("storage.uploadDir", "uploads")
	v.SetDefault("storage.urlPrefix", "/uploads")
}

// NewConfig loads the configuration for the current ENV (DEV (local; default), TEST, QA, PROD).
// Precedence: environment ("<ENV>_<KEY>", dots replaced by underscores) > config/.env.<env> > defaults.
// List values (server.allowedOrigins) are space separated in the environment.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
	}

	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugAddress = v.GetString("server.debugAddress")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.AllowedOrigins = v.GetStringSlice("server.allowedOrigins")
	conf.Server.BodyLimit = v.GetString("server.bodyLimit")

	conf.Database.Engine = strings.ToLower(v.GetString("database.engine"))
	conf.Database.Host = v.GetString("database.host")
	conf.Database.Port = v.GetString("database.port")
	conf.Database.Name = v.GetString("database.name")
	conf.Database.User = v.GetString("database.user")
	conf.Database.Password = v.GetString("database.password")
	conf.Database.AdminUser = v.GetString("database.adminUser")
	conf.Database.AdminPassword = v.GetString("database.adminPassword")
	conf.Database.DisableTLS = v.GetBool("database.disableTLS")
	conf.Database.MongoURI = v.GetString("database.mongoURI")

	conf.Redis.Addr = v.GetString("redis.addr")
	conf.Redis.Password = v.GetString("redis.password")
	conf.Redis.DB = v.GetInt("redis.db")

	conf.Session.Store = strings.ToLower(v.GetString("session.store"))
	conf.Session.CookieName = v.GetString("session.cookieName")
	conf.Session.TTL = v.GetDuration("session.ttl")
	conf.Session.Secure = v.GetBool("session.secure")

	conf.Storage.UploadDir = v.GetString("storage.uploadDir")
	conf.Storage.URLPrefix = v.GetString("storage.urlPrefix")

	return conf
}
