// Package app assembles the gateway: configuration, stores, the model
// client, and the HTTP server.
package app

import (
	"context"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"aivis/internal/audit"
	"aivis/internal/auth"
	"aivis/internal/fetch"
	"aivis/internal/gateway/config"
	"aivis/internal/gateway/handler"
	"aivis/internal/gateway/server"
	llmclient "aivis/internal/llm/client"
	llmmw "aivis/internal/llm/middleware"
	"aivis/internal/runlog"
	"aivis/internal/secret"
)

type App struct {
	cfg    *config.Config
	server *server.Server
	llm    llmclient.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	var llm llmclient.Client
	if cfg.Gemini.APIKey != "" {
		gemini, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		llm = llmmw.Chain(gemini, llmmw.WithLogging(log.Default()))
	} else {
		log.Printf("llm: GEMINI_API_KEY not set, audits degrade to synthetic results")
	}

	var search fetch.Searcher
	if cfg.Search.Endpoint != "" {
		sc, err := fetch.NewSearchClient(cfg.Search.Endpoint, cfg.Search.APIKey)
		if err != nil {
			return nil, err
		}
		search = sc
	} else {
		log.Printf("search: SEARCH_API_ENDPOINT not set, voice tester disabled")
	}

	var box *secret.Box
	if cfg.SealingKey != "" {
		box, err = secret.NewBox(cfg.SealingKey)
		if err != nil {
			return nil, err
		}
	} else {
		log.Printf("secret: CREDENTIAL_SEALING_KEY not set, integrations disabled")
	}

	verifier, err := initVerifier(cfg)
	if err != nil {
		return nil, err
	}

	pages, err := fetch.NewCachedPageFetcher(fetch.NewHTTPPageFetcher(), 512)
	if err != nil {
		return nil, err
	}
	runs := runlog.New(stores.runs, log.Default())

	mux := server.NewMux(
		verifier,
		handler.NewAuditHandler(audit.NewPipeline(llm, log.Default()), pages, runs),
		handler.NewContentHandler(llm, pages, runs),
		handler.NewVoiceTesterHandler(search, runs),
		handler.NewRunsHandler(stores.runs),
		handler.NewReportsHandler(stores.reports, stores.reportObjects),
		handler.NewIntegrationsHandler(stores.integrations, box),
		handler.NewWebhookHandler(cfg.WebhookSecret, runs),
	)

	return &App{
		cfg:    cfg,
		server: server.New(cfg.Port, mux),
		llm:    llm,
	}, nil
}

func initVerifier(cfg *config.Config) (auth.Verifier, error) {
	if cfg.Auth.UserinfoURL != "" {
		return auth.NewHTTPVerifier(cfg.Auth.UserinfoURL)
	}
	if strings.EqualFold(cfg.Env, "local") && cfg.Auth.DevToken != "" {
		log.Printf("auth: using static dev token verifier")
		return auth.StaticVerifier{cfg.Auth.DevToken: "local-user"}, nil
	}
	// Without a verifier every authed route rejects; the webhook route
	// still works by signature.
	log.Printf("auth: AUTH_USERINFO_URL not set, bearer tokens will be rejected")
	return auth.StaticVerifier{}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			log.Printf("llm: close: %v", err)
		}
	}
	return a.server.Shutdown(ctx)
}
