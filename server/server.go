package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/techedushop/contactus/models"
	"github.com/techedushop/contactus/server/logger"
	"github.com/techedushop/contactus/server/mailer"
	"github.com/techedushop/contactus/server/ratelimit"
	"github.com/techedushop/contactus/server/work"
)

const (
	CONTACT_NOTIFICATION_HANDLER = "contact_notification_email"
	AUTO_REPLY_HANDLER           = "auto_reply_email"

	WORKER_POOL_CONCURRENCY = 2
	SHUTDOWN_TIMEOUT        = 10 * time.Second
)

var logg = logger.NewLogger()

// Config is the process-wide configuration, built once at startup &
// injected into the app, so components stay testable with substituted
// values.
type Config struct {
	Env             string
	Port            int
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// App wires the HTTP surface to its collaborators: the entity store
// (via models), the mail transport & the background worker pool.
type App struct {
	config     *Config
	mailer     mailer.Mailer
	workerPool *work.WorkerPool
	limiter    *ratelimit.Limiter
}

func NewApp(config *Config, mailService mailer.Mailer, workerPool *work.WorkerPool) *App {
	app := &App{
		config:     config,
		mailer:     mailService,
		workerPool: workerPool,
		limiter:    ratelimit.NewLimiter(config.RateLimitMax, config.RateLimitWindow),
	}

	app.registerJobHandlers()

	return app
}

// Start boots the contactus server & blocks until it's shut down.
func Start(config *viper.Viper, isDevEnv bool) {
	env := "production"
	if isDevEnv {
		env = "development"
	}

	err := models.AutoMigrate(
		config.GetString("database.passPhrase"),
		config.GetString("database.rootDir"),
	)
	if err != nil {
		logg.Fatalf("unable to set up database: %v", err)
	}

	mailConfig := &mailer.Config{
		SMTPHost:     config.GetString("smtp.host"),
		SMTPPort:     config.GetInt("smtp.port"),
		SMTPUsername: config.GetString("smtp.username"),
		SMTPPassword: config.GetString("smtp.password"),
		FromEmail:    config.GetString("smtp.from"),
		FromName:     config.GetString("smtp.fromName"),
		AdminEmail:   config.GetString("smtp.adminEmail"),
	}

	var mailService mailer.Mailer
	if isDevEnv {
		mailService = mailer.NewTestSMTPMailer(mailConfig)
	} else {
		mailService = mailer.NewSMTPMailer(mailConfig)
	}

	appConfig := &Config{
		Env:             env,
		Port:            config.GetInt("listener.port"),
		AllowedOrigins:  config.GetStringSlice("cors.allowedOrigins"),
		RateLimitMax:    config.GetInt("rateLimit.maxRequests"),
		RateLimitWindow: time.Duration(config.GetInt("rateLimit.windowSecs")) * time.Second,
	}

	workerPool := work.NewWorkerPool(WORKER_POOL_CONCURRENCY)
	app := NewApp(appConfig, mailService, workerPool)
	workerPool.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%v", appConfig.Port),
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logg.Infof("contactus server(%v) is listening on port:%v...", env, appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal(err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logg.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logg.Errorf("server shutdown: %v", err)
	}

	workerPool.Stop()
	app.limiter.Stop()
}

// Handler assembles the router & middleware chain.
func (app *App) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", app.apiIndex).Methods("GET")
	router.HandleFunc("/health", app.healthCheck).Methods("GET")

	contacts := router.PathPrefix("/api/v1/contacts").Subrouter()
	contacts.Use(app.rateLimitMiddleware)

	contacts.HandleFunc("", app.createContact).Methods("POST")
	contacts.HandleFunc("/stats", app.getContactStats).Methods("GET")
	contacts.HandleFunc("", app.getContacts).Methods("GET")
	contacts.HandleFunc("/{id}", app.getContact).Methods("GET")
	contacts.HandleFunc("/{id}", app.updateContact).Methods("PATCH")
	contacts.HandleFunc("/{id}", app.deleteContact).Methods("DELETE")
	contacts.HandleFunc("/{id}/read", app.markContactAsRead).Methods("PATCH")
	contacts.HandleFunc("/{id}/archive", app.archiveContact).Methods("PATCH")

	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	var handler http.Handler = router
	handler = limitBodyMiddleware(handler)
	handler = corsMiddleware(app.config.AllowedOrigins, handler)
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = recoverMiddleware(handler)

	return handler
}

// registerJobHandlers binds the notification email jobs to the pool.
// Both fetch the contact fresh from the store, so a job only needs the
// contact id to travel through the queue.
func (app *App) registerJobHandlers() {
	app.workerPool.RegisterHandler(CONTACT_NOTIFICATION_HANDLER, func(args map[string]interface{}) error {
		contact, err := findContactForJob(args)
		if err != nil {
			return err
		}

		return app.mailer.SendContactNotification(contact)
	})

	app.workerPool.RegisterHandler(AUTO_REPLY_HANDLER, func(args map[string]interface{}) error {
		contact, err := findContactForJob(args)
		if err != nil {
			return err
		}

		return app.mailer.SendAutoReply(contact)
	})
}

func findContactForJob(args map[string]interface{}) (*models.Contact, error) {
	id, _ := args["contact_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("contact_id is required")
	}

	return models.FindContact(id)
}
