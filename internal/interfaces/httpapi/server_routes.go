package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// Reads stay public; only writes carry the auth guard.
func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/matches", handler.ListLiveMatches)
	mux.HandleFunc("GET /api/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /api/predictions/{userID}", handler.ListUserPredictions)
	mux.HandleFunc("GET /api/leagues/featured", handler.ListFeaturedLeagues)
	mux.HandleFunc("GET /api/leagues/user/{userID}", handler.ListUserLeagues)
	mux.HandleFunc("GET /api/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /api/activity/{userID}", handler.GetActivityFeed)
	mux.HandleFunc("GET /api/users/{userID}/stats", handler.GetUserStats)

	mux.HandleFunc("POST /api/auth/signup", handler.Signup)
	mux.HandleFunc("POST /api/auth/login", handler.Login)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /api/predict", RequireAuth(verifier, http.HandlerFunc(handler.SavePrediction)))
	mux.Handle("POST /api/leagues/create", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /api/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("PUT /api/users/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateProfile)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/calc-points", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCalcPoints)))
}
