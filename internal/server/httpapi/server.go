package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ums/internal/logging"
	"github.com/dmitrijs2005/ums/internal/server/models"
	"github.com/dmitrijs2005/ums/internal/server/services"
	"github.com/gorilla/mux"
)

type authSvc interface {
	Login(ctx context.Context, username string, password string) (*services.LoginResult, error)
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

type userSvc interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
	Create(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error)
	Update(ctx context.Context, id int64, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type HTTPServer struct {
	address     string
	corsOrigins string
	auth        authSvc
	users       userSvc
	logger      logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, as *services.AuthService, us *services.UserService, corsOrigins string) (*HTTPServer, error) {
	return &HTTPServer{
		address:     a,
		corsOrigins: corsOrigins,
		auth:        as,
		users:       us,
		logger:      l.With("module", "http_server"),
	}, nil
}

func (s *HTTPServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogMiddleware, s.corsMiddleware)

	// public
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)

	// everything else requires a bearer token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.accessTokenMiddleware)
	api.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/users", s.handleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/users/{id}", s.handleUpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", s.handleDeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/roles", s.handleListRoles).Methods(http.MethodGet, http.MethodOptions)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
