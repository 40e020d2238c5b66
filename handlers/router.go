package handlers

import (
	"net/http"

	"smartstudy/logger"

	"github.com/gorilla/mux"
)

type routeRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter mounts every handler behind the CORS and request-log middleware.
func NewRouter(log *logger.Logger, handlers ...routeRegistrar) http.Handler {
	router := mux.NewRouter()
	router.Use(jsonMiddleware)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	router.NotFoundHandler = http.HandlerFunc(notFound)

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	return requestLogger(log, corsMiddleware(router))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
