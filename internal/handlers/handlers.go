package handlers

import (
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/database"
	"github.com/qazimabbas/LostnFound/internal/engine"
	"github.com/qazimabbas/LostnFound/internal/middleware"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Sessions       *middleware.Sessions
	Metrics        *utils.MetricsCollector
	MongoDB        *database.MongoDB // nil in tests; health then skips counts
	Log            *zap.SugaredLogger
	AllowedOrigins []string
	RequestTimeout time.Duration

	validate *validator.Validate
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	sessions *middleware.Sessions,
	metrics *utils.MetricsCollector,
	mongodb *database.MongoDB,
	log *zap.SugaredLogger,
	allowedOrigins []string,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Sessions:       sessions,
		Metrics:        metrics,
		MongoDB:        mongodb,
		Log:            log,
		AllowedOrigins: allowedOrigins,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
		validate:       validator.New(),
	}
}

// Routes builds the full router: open account endpoints, then the
// session-gated listing and response groups.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(s.Log, s.Metrics))
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(s.AllowedOrigins)))

	r.Get("/health", s.HandleHealth())

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/signup", s.HandleSignup())
		r.Post("/login", s.HandleLogin())
		r.Post("/logout", s.HandleLogout())

		r.Group(func(r chi.Router) {
			r.Use(s.Sessions.Middleware)
			r.Put("/update", s.HandleUpdateProfile())
		})
	})

	r.Route("/api/items", func(r chi.Router) {
		r.Use(s.Sessions.Middleware)
		r.Post("/list", s.HandleCreateListing())
		r.Post("/all-items", s.HandleSearchListings())
		r.Get("/item/{id}", s.HandleGetListing())
		r.Put("/update-item/{id}", s.HandleUpdateListing())
		r.Get("/my-items", s.HandleMyListings())
		r.Delete("/delete-item/{id}", s.HandleDeleteListing())
	})

	r.Route("/api/responses", func(r chi.Router) {
		r.Use(s.Sessions.Middleware)
		r.Post("/", s.HandleCreateResponse())
		r.Get("/sent", s.HandleSentResponses())
		r.Get("/received", s.HandleReceivedResponses())
		r.Get("/claims", s.HandleReceivedClaims())
		r.Patch("/{responseId}/status", s.HandleUpdateResponseStatus())
		r.Delete("/{responseId}", s.HandleDeleteResponse())
	})

	return r
}

// ask sends a message to an actor and waits for the reply.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// asAppError normalizes any actor reply or transport error into an AppError,
// logging unexpected failures with their cause.
func (s *Server) asAppError(result interface{}, err error) *utils.AppError {
	if err != nil {
		s.Log.Errorw("actor request failed", "error", err)
		return utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		if appErr.Origin != nil {
			s.Log.Errorw("operation failed", "code", appErr.Code, "error", appErr.Origin)
		}
		return appErr
	}
	return nil
}

// writeBareError answers in the {"message": ...} error shape.
func (s *Server) writeBareError(w http.ResponseWriter, appErr *utils.AppError) {
	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status == http.StatusInternalServerError {
		api.WriteMessage(w, status, "Something went wrong")
		return
	}
	api.WriteMessage(w, status, appErr.Message)
}

// writeStatusError answers in the {"status":"error","message":...} shape.
func (s *Server) writeStatusError(w http.ResponseWriter, appErr *utils.AppError) {
	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status == http.StatusInternalServerError {
		api.WriteStatusError(w, status, "Something went wrong")
		return
	}
	api.WriteStatusError(w, status, appErr.Message)
}
