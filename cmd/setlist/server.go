package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"setlist/internal/app/admins"
	"setlist/internal/app/telemetry"
	"setlist/internal/app/votes"
	"setlist/internal/catalog"
	"setlist/internal/deezer"
	"setlist/internal/httpapi"
	"setlist/internal/mail"
	"setlist/internal/middleware"
	"setlist/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, logger zerolog.Logger) http.Handler {
	client := deezer.NewClient()
	fetcher := catalog.NewFetcher(client, cfg.ArtistName, cfg.ArtistImageFallback, logger)
	songCache := catalog.NewCache(fetcher, catalog.DefaultTTL, nil)

	voteSvc := votes.New(dataStore)
	adminSvc := admins.New(dataStore, newNotifier(cfg, logger), cfg.AdminSetupKey, []byte(cfg.JWTSecret), logger)
	telemetrySvc := telemetry.New(dataStore)

	handler := httpapi.New(songCache, voteSvc, adminSvc, telemetrySvc).Routes()
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)

	return withCORS(cfg.AllowedOrigins, handler)
}

func newNotifier(cfg Config, logger zerolog.Logger) mail.Notifier {
	if cfg.SMTPHost == "" || cfg.MailTo == "" {
		logger.Info().Msg("SMTP not configured, admin notifications disabled")
		return mail.NopNotifier{}
	}
	return mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		To:       cfg.MailTo,
	})
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
