package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/squadpick/internal/api/handlers"
	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/metrics"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/pkg/config"
	"github.com/wonny/squadpick/pkg/logger"
	"github.com/wonny/squadpick/pkg/redis"
)

// Deps are the collaborators the router wires into handlers and middleware
type Deps struct {
	Config  *config.Config
	Service *roster.Service
	Tokens  *auth.TokenIssuer
	Redis   *redis.Client     // disabled client means in-process rate limits
	Metrics *metrics.Recorder // nil disables request metrics
	Logger  *logger.Logger
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	authLimiter, apiLimiter := newLimiters(d.Config.RateLimit, d.Redis)

	authH := handlers.NewAuthHandler(d.Service, log)
	playerH := handlers.NewPlayerHandler(d.Service, log)
	ratingH := handlers.NewRatingHandler(d.Service, log)
	teamH := handlers.NewTeamHandler(d.Service, log)

	authed := requireAuth(d.Tokens)
	admin := func(h http.HandlerFunc) http.Handler { return authed(requireAdmin(h)) }
	user := func(h http.HandlerFunc) http.Handler { return authed(h) }
	throttled := rateLimitMiddleware("auth", authLimiter,
		"Too many login/register attempts, please try again after "+humanWindow(d.Config.RateLimit.AuthWindow),
		true, d.Metrics, log)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware("api", apiLimiter,
		"Too many requests from this IP, please try again after "+humanWindow(d.Config.RateLimit.APIWindow),
		false, d.Metrics, log))

	// Accounts
	api.Handle("/register", throttled(http.HandlerFunc(authH.Register))).Methods("POST")
	api.Handle("/login", throttled(http.HandlerFunc(authH.Login))).Methods("POST")

	// Players
	api.Handle("/", user(playerH.List)).Methods("GET")
	api.Handle("/me", user(playerH.Me)).Methods("GET")
	api.Handle("/me", user(playerH.UpdateMe)).Methods("PUT")
	api.Handle("/me", user(playerH.DeleteMe)).Methods("DELETE")

	// Ratings and teams
	api.Handle("/rate/{id:[0-9]+}", user(ratingH.Rate)).Methods("POST")
	api.Handle("/teams", user(teamH.Generate)).Methods("POST")

	// Admin
	api.Handle("/{id:[0-9]+}", admin(playerH.Update)).Methods("PUT")
	api.Handle("/{id:[0-9]+}", admin(playerH.Delete)).Methods("DELETE")

	if d.Metrics != nil {
		r.Use(metricsMiddleware(d.Metrics))
	}

	// outermost first
	var h http.Handler = r
	h = corsMiddleware(h)
	h = securityHeaders(h)
	h = recoveryMiddleware(log)(h)
	h = loggingMiddleware(log)(h)
	return h
}

// newLimiters picks the redis sliding window when redis is enabled, token buckets otherwise
func newLimiters(cfg config.RateLimitConfig, rc *redis.Client) (authLimiter, apiLimiter Limiter) {
	if rc.Enabled() {
		rl := redis.NewRateLimiter(rc, "squadpick")
		return NewRedisLimiter(rl, redis.AuthRateLimit(cfg)), NewRedisLimiter(rl, redis.APIRateLimit(cfg))
	}
	return NewLocalLimiter(cfg.AuthLimit, cfg.AuthWindow), NewLocalLimiter(cfg.APILimit, cfg.APIWindow)
}

// humanWindow renders a window as "15 minutes"
func humanWindow(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok","service":"squadpick"}`)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	handlers.RespondMessage(w, http.StatusNotFound, "Not Found - "+r.URL.Path)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	handlers.RespondMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed - "+r.Method+" "+r.URL.Path)
}
