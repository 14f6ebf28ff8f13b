package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerImageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings/{league}/image", handler.GetStandingsImage)
	mux.HandleFunc("GET /v1/leaders/image", handler.GetLeadersImage)
}

func registerWelcomeRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/guilds/{guildID}/welcome", handler.GetWelcomeStatus)
	mux.Handle("PUT /v1/guilds/{guildID}/welcome", RequireAdminToken(adminToken, http.HandlerFunc(handler.PutWelcomeStatus)))
	mux.Handle("POST /v1/guilds/{guildID}/welcome/preview", RequireAdminToken(adminToken, http.HandlerFunc(handler.PreviewWelcome)))
	mux.Handle("POST /v1/guilds/{guildID}/members/join", RequireAdminToken(adminToken, http.HandlerFunc(handler.PostMemberJoin)))
}
