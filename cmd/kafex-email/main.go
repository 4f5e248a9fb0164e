package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/kafexApp/kafexapp/pkg/config"
	"github.com/kafexApp/kafexapp/pkg/emailverification"
	emailverificationapi "github.com/kafexApp/kafexapp/pkg/emailverification/api"
	emailverificationweb "github.com/kafexApp/kafexapp/pkg/emailverification/web"
	"github.com/kafexApp/kafexapp/pkg/notification"
)

type Config struct {
	// VerifyBaseUrl is the public link prefix embedded in verification
	// emails; the emailed link is VerifyBaseUrl?token=<token>.
	VerifyBaseUrl string `env:"KAFEX_VERIFY_BASE_URL" env-default:"https://link.kafex.com.br/verify-email"`

	// InvalidatePriorTokens switches issuance to single-active-token
	// semantics. Off by default: multiple live tokens per user.
	InvalidatePriorTokens bool `env:"KAFEX_INVALIDATE_PRIOR_TOKENS" env-default:"false"`

	DatabaseConfig config.DatabaseConfig
	AppConfig      app.AppConfig
	BrevoConfig    config.BrevoConfig
	EmailConfig    config.EmailConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed reading environment", "err", err)
		os.Exit(-1)
	}

	dbConfig := cfg.DatabaseConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	// Brevo is the primary delivery channel; SMTP is the fallback for
	// environments without an API key (local dev against mailpit).
	notifOpts := []notification.NotificationManagerOption{
		notification.WithDefaultTemplates(),
	}
	if cfg.BrevoConfig.IsConfigured() {
		notifOpts = append(notifOpts, notification.WithBrevo(cfg.BrevoConfig.ToBrevoConfig()))
	} else {
		slog.Warn("BREVO_API_KEY not set, falling back to SMTP delivery", "host", cfg.EmailConfig.Host)
		notifOpts = append(notifOpts, notification.WithSMTP(cfg.EmailConfig.ToSMTPConfig()))
	}

	notificationManager, err := notification.NewNotificationManagerWithOptions(cfg.VerifyBaseUrl, notifOpts...)
	if err != nil {
		slog.Error("Failed to initialize notification manager", "err", err)
		os.Exit(-1)
	}

	var svcOpts []emailverification.EmailVerificationServiceOption
	if cfg.InvalidatePriorTokens {
		svcOpts = append(svcOpts, emailverification.WithInvalidatePriorTokens())
	}

	repo := emailverification.NewPostgresRepository(pool)
	service := emailverification.NewEmailVerificationService(repo, notificationManager, cfg.VerifyBaseUrl, svcOpts...)

	apiHandler := emailverificationapi.NewHandler(service)
	webHandle := emailverificationweb.NewHandle(service)

	server := app.DefaultApp()

	// The mobile app and the email link hit these endpoints from arbitrary
	// origins; preflight requests are answered by the cors middleware.
	server.R.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		MaxAge:         300,
	}))
	server.R.Use(httplog.RequestLogger(httplog.NewLogger("kafex-email", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})))

	app.RoutesHealthz(server.R)

	apiHandler.Routes(server.R)
	webHandle.Routes(server.R)

	server.Run()
}
