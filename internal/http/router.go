package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
)

type RouterDependencies struct {
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	AdminHandler       *handlers.AdminHandler
	TokenHandler       *handlers.TokenHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Limiter            httpmw.Limiter
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

// Resume uploads are capped at 2 MiB by the service; the body limit leaves
// room for larger files to reach it and be rejected with a field error.
const maxBodyBytes = 8 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(deps.Logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	publicLimit := httpmw.RateLimit(r.deps.Limiter, func(req *http.Request) string {
		return "public:" + httpmw.ClientIP(req)
	}, 120, time.Minute)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimSuffix(req.URL.Path, "/")
		if path == "" {
			path = "/"
		}

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			metrics.NewHandler(r.deps.Metrics).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/internal/tokens":
			r.deps.TokenHandler.Issue(w, req)
			return
		case req.Method == http.MethodGet && (path == "/home" || path == "/"):
			publicLimit(http.HandlerFunc(r.deps.JobHandler.Home)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			publicLimit(r.deps.AuthMiddleware.Optional(http.HandlerFunc(r.deps.JobHandler.Browse))).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/"):
			publicLimit(r.deps.AuthMiddleware.Optional(http.HandlerFunc(r.deps.JobHandler.Show))).ServeHTTP(w, req)
			return
		}

		if path == "/applications" || strings.HasPrefix(path, "/applications/") || path == "/admin" || strings.HasPrefix(path, "/admin/") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req, path)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request, path string) {
	seeker := httpmw.RequireRole(user.RoleJobSeeker)
	admin := httpmw.RequireRole(user.RoleAdmin)
	apps := r.deps.ApplicationHandler
	adm := r.deps.AdminHandler
	isPostingItem := strings.HasPrefix(path, "/admin/job-postings/")

	switch {
	case req.Method == http.MethodGet && path == "/applications":
		seeker(http.HandlerFunc(apps.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		seeker(http.HandlerFunc(apps.Submit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
		apps.Get(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/applications/"):
		apps.Delete(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/dashboard":
		admin(http.HandlerFunc(adm.Dashboard)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/job-postings":
		admin(http.HandlerFunc(adm.ListPostings)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/admin/job-postings":
		admin(http.HandlerFunc(adm.CreatePosting)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && isPostingItem:
		admin(http.HandlerFunc(adm.GetPosting)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && isPostingItem:
		admin(http.HandlerFunc(adm.UpdatePosting)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && isPostingItem:
		admin(http.HandlerFunc(adm.DeletePosting)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/applications":
		admin(http.HandlerFunc(apps.ListAll)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/admin/applications/"):
		admin(http.HandlerFunc(apps.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/users":
		admin(http.HandlerFunc(adm.ListUsers)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/admin/users":
		admin(http.HandlerFunc(adm.CreateUser)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}
