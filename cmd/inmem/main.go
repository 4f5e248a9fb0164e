// Package main runs the email-verification service without Postgres or
// Brevo, using the in-memory repository and a console notifier that logs
// the verification link instead of emailing it. This is useful for:
// - Quick development and manual testing of the endpoints
// - Demo environments
// - Learning the API without database setup
//
// Note: all data is lost when the server stops. For production, use
// cmd/kafex-email with PostgreSQL.
package main

import (
	"log/slog"
	"os"

	"github.com/tendant/chi-demo/app"

	"github.com/kafexApp/kafexapp/pkg/emailverification"
	emailverificationapi "github.com/kafexApp/kafexapp/pkg/emailverification/api"
	emailverificationweb "github.com/kafexApp/kafexapp/pkg/emailverification/web"
	"github.com/kafexApp/kafexapp/pkg/notification"
)

const baseURL = "http://localhost:8080/verify-email"

// consoleNotifier logs the notice instead of delivering it, so the
// verification link can be copied straight from the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Send(noticeType notification.NoticeType, n notification.NotificationData, _ notification.NoticeTemplate) error {
	slog.Info("Notice (not delivered)",
		"notice_type", noticeType,
		"to", n.To,
		"link", n.Data["VerificationLink"])
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory email-verification service (no database required)")

	notificationManager, err := notification.NewNotificationManagerWithOptions(
		baseURL,
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed to initialize notification manager", "err", err)
		os.Exit(-1)
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, consoleNotifier{})

	repo := emailverification.NewInMemRepository()
	repo.SeedProfile("demo-user")

	service := emailverification.NewEmailVerificationService(repo, notificationManager, baseURL)

	apiHandler := emailverificationapi.NewHandler(service)
	webHandle := emailverificationweb.NewHandle(service)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	apiHandler.Routes(server.R)
	webHandle.Routes(server.R)

	slog.Info("Seeded profile", "user_ref", "demo-user")
	slog.Info("Try: POST /send-verification-email with {\"userRef\":\"demo-user\",\"email\":\"a@x.com\",\"nomeExibicao\":\"Demo\",\"type\":\"verification\"}")

	server.Run()
}
