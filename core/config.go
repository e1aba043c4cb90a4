package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // the timezone key must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (local; default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		WorkDir  string
		Build    string

		AppName          string
		SecretKey        string
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string

		SeedFile      string
		DefaultUserID string
		Location      *time.Location // agenda timezone: iCalendar times and completion times

		Server       ServerConfig
		Notification NotificationConfig
	}

	ServerConfig struct {
		Host                   string
		DebugHost              string
		ShutdownTimeout        time.Duration
		JWTExpirationDelta     time.Duration
		JWTRefreshExpiration   time.Duration
		DisableRequestsLogging bool
	}

	NotificationConfig struct {
		Gateway    string // console | sendgrid
		Platform   string // android | ios | web
		Permission string // granted | denied (console gateway only)
		Delay      time.Duration
		Sweep      string // cron spec
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the uppercase env name, e.g. DEV_SECRETKEY.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "OneStop")
	v.SetDefault("secretKey", "k2t!9x$8z@lq7c#vh3p0w^e6n(ur)m*d5b_j1y&s4a+fg")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("seedFile", "")
	v.SetDefault("defaultUserId", "")
	v.SetDefault("timezone", "UTC")

	v.SetDefault("serverHost", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableRequestsLogging", false)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("notificationGateway", "console")
	v.SetDefault("notificationPlatform", "android")
	v.SetDefault("notificationPermission", "granted")
	v.SetDefault("notificationDelay", 1*time.Second)
	v.SetDefault("notificationSweep", "@every 5m")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		log.Fatalf("config.LoadLocation(%s): %v", v.GetString("timezone"), err)
	}

	return &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		WorkDir:  workDir,
		Build:    v.GetString("build"),

		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),

		SeedFile:      v.GetString("seedFile"),
		DefaultUserID: v.GetString("defaultUserId"),
		Location:      loc,

		Server: ServerConfig{
			Host:                   v.GetString("serverHost"),
			DebugHost:              v.GetString("serverDebugHost"),
			ShutdownTimeout:        v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:     v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpiration:   v.GetDuration("jwtRefreshExpirationDelta"),
			DisableRequestsLogging: v.GetBool("serverDisableRequestsLogging"),
		},
		Notification: NotificationConfig{
			Gateway:    strings.ToLower(v.GetString("notificationGateway")),
			Platform:   strings.ToLower(v.GetString("notificationPlatform")),
			Permission: strings.ToLower(v.GetString("notificationPermission")),
			Delay:      v.GetDuration("notificationDelay"),
			Sweep:      v.GetString("notificationSweep"),
		},
	}
}
