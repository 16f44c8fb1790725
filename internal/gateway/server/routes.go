package server

import (
	"net/http"

	"aivis/internal/auth"
	"aivis/internal/gateway/handler"
	"aivis/internal/gateway/middleware"
)

// NewMux wires every tool endpoint. All tool routes sit behind bearer auth;
// the billing webhook authenticates by signature instead.
func NewMux(
	verifier auth.Verifier,
	auditHandler *handler.AuditHandler,
	contentHandler *handler.ContentHandler,
	voiceHandler *handler.VoiceTesterHandler,
	runsHandler *handler.RunsHandler,
	reportsHandler *handler.ReportsHandler,
	integrationsHandler *handler.IntegrationsHandler,
	webhookHandler *handler.WebhookHandler,
) http.Handler {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(verifier, h)
	}

	// Tool endpoints
	mux.Handle("/v1/tools/quick-audit", authed(auditHandler.HandleQuickAudit))
	mux.Handle("/v1/tools/visibility-audit", authed(auditHandler.HandleVisibilityAudit))
	mux.Handle("/v1/tools/optimizer", authed(contentHandler.HandleOptimizer))
	mux.Handle("/v1/tools/summary", authed(contentHandler.HandleSummary))
	mux.Handle("/v1/tools/playbook", authed(contentHandler.HandlePlaybook))
	mux.Handle("/v1/tools/entity-analyzer", authed(contentHandler.HandleEntityAnalyzer))
	mux.Handle("/v1/tools/content-generator", authed(contentHandler.HandleContentGenerator))
	mux.Handle("/v1/tools/voice-tester", authed(voiceHandler.HandleVoiceTest))

	// Runs
	mux.Handle("/v1/runs", authed(runsHandler.HandleList))
	mux.Handle("/v1/runs/watch", authed(runsHandler.HandleWatch))
	mux.Handle("/v1/runs/{id}", authed(runsHandler.HandleGet))

	// Reports & integrations
	mux.Handle("/v1/reports", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.HandleList(w, r)
			return
		}
		reportsHandler.HandleCreate(w, r)
	}))
	mux.Handle("/v1/reports/{id}", authed(reportsHandler.HandleGet))
	mux.Handle("/v1/integrations", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			integrationsHandler.HandleList(w, r)
			return
		}
		integrationsHandler.HandleConnect(w, r)
	}))

	// Webhooks (signature-authenticated)
	mux.HandleFunc("/v1/webhooks/billing", webhookHandler.HandleBilling)

	return middleware.CORS(mux)
}
