package kernel

import (
	"context"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var (
	once       sync.Once
	appRuntime *AppRuntime
)

type AppRuntime struct {
	Host string

	ServiceName           string
	ServiceVersion        string
	DeploymentEnvironment string

	DatabaseDSN    string
	DatabaseClient *gorm.DB

	JaegerEndpoint string
	Insecure       bool

	// Fallback admin identity, read-only after startup. Used by the
	// credential store until a persisted credential exists.
	AdminEmail    string
	AdminPassword string

	// Admin JWT signing key
	SecretKey []byte

	Diagnostic *AppDiagnostic

	Context context.Context
}

func LoadConfig() *AppRuntime {
	once.Do(func() {
		appEnv := os.Getenv("API_ENV")
		if appEnv == "" {
			appEnv = "development"
		}

		var env map[string]string
		env, err := godotenv.Read(".env." + appEnv)
		if err != nil {
			log.Fatal().Err(err).Str("env", appEnv).Msg("failed to read env file")
		}

		appRuntime = &AppRuntime{
			Host:        env["HOST"],
			DatabaseDSN: env["DATABASE_DSN"],

			ServiceName:           env["SERVICE_NAME"],
			ServiceVersion:        env["SERVICE_VERSION"],
			DeploymentEnvironment: env["DEPLOY_ENV"],

			JaegerEndpoint: env["JAEGER_ENDPOINT"],
			Insecure:       env["INSECURE"] == "true",

			AdminEmail:    env["ADMIN_EMAIL"],
			AdminPassword: env["ADMIN_PASSWORD"],
			SecretKey:     []byte(env["JWT_SECRET"]),

			Diagnostic: &AppDiagnostic{
				Tracer: otel.Tracer(env["SERVICE_NAME"] + "-tracer"),
				Meter:  otel.Meter(env["SERVICE_NAME"] + "-meter"),
			},
		}

		if len(appRuntime.SecretKey) == 0 {
			log.Fatal().Msg("JWT_SECRET is not set")
		}
		if appRuntime.AdminEmail == "" || appRuntime.AdminPassword == "" {
			log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set; admin login disabled until a credential is persisted")
		}
	})
	return appRuntime
}
