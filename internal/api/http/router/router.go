package router

import (
	"github.com/gorilla/mux"

	"github.com/HilaBluman/CEOS/internal/api/http/handler"
	"github.com/HilaBluman/CEOS/internal/api/http/middleware"
	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
	"github.com/HilaBluman/CEOS/internal/service"
)

// Router wires services to routes and middleware.
type Router struct {
	authService     *service.Auth
	documentService *service.Document
	accessService   *service.Access
	editorService   *service.Editor
	versionService  *service.Version
	syncService     *service.Sync
	tokens          model.TokenManager
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	documentService *service.Document,
	accessService *service.Access,
	editorService *service.Editor,
	versionService *service.Version,
	syncService *service.Sync,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		documentService: documentService,
		accessService:   accessService,
		editorService:   editorService,
		versionService:  versionService,
		syncService:     syncService,
		tokens:          tokens,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// Register builds the route tree. Signup and login are public; everything
// under /api/files requires a bearer token.
func (r *Router) Register() *mux.Router {
	root := mux.NewRouter()
	root.Use(middleware.NewLogging(r.logger).Handle)

	api := root.PathPrefix("/api").Subrouter()

	authHandler := handler.NewAuth(r.authService, r.logger)
	api.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	authed := api.PathPrefix("/files").Subrouter()
	authed.Use(middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger).Handle)

	documentHandler := handler.NewDocument(r.documentService, r.contextManager, r.logger)
	authed.HandleFunc("", documentHandler.Create).Methods("POST")
	authed.HandleFunc("", documentHandler.List).Methods("GET")
	authed.HandleFunc("/{fileID}", documentHandler.Delete).Methods("DELETE")

	editorHandler := handler.NewEditor(r.editorService, r.contextManager, r.logger)
	authed.HandleFunc("/{fileID}/content", editorHandler.Content).Methods("GET")
	authed.HandleFunc("/{fileID}/modify", editorHandler.Modify).Methods("POST")

	syncHandler := handler.NewSync(r.syncService, r.contextManager, r.logger)
	authed.HandleFunc("/{fileID}/changes", syncHandler.Changes).Methods("GET")

	versionHandler := handler.NewVersion(r.versionService, r.editorService, r.contextManager, r.logger)
	authed.HandleFunc("/{fileID}/versions", versionHandler.Save).Methods("POST")
	authed.HandleFunc("/{fileID}/versions", versionHandler.List).Methods("GET")
	authed.HandleFunc("/{fileID}/versions/{version}", versionHandler.Get).Methods("GET")
	authed.HandleFunc("/{fileID}/versions/{version}", versionHandler.Delete).Methods("DELETE")

	accessHandler := handler.NewAccess(r.accessService, r.contextManager, r.logger)
	authed.HandleFunc("/{fileID}/access", accessHandler.Grant).Methods("POST")
	authed.HandleFunc("/{fileID}/access", accessHandler.List).Methods("GET")
	authed.HandleFunc("/{fileID}/access/{userID}", accessHandler.Revoke).Methods("DELETE")

	return root
}
