package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// UserHeader carries the authenticated user ID set by the upstream auth layer
const UserHeader = "X-User-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// NewRouter wires every route. Access logs go to accessLog when it is not nil.
func NewRouter(h *Handlers, accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)

	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/api/ia/analise-consumo", withUser(h.Analysis)).Methods("GET")
	r.HandleFunc("/api/consumo", withUser(h.Consumption)).Methods("GET")
	r.HandleFunc("/api/relatorio/mensal", withUser(h.MonthlyReport)).Methods("GET")
	r.HandleFunc("/api/estatisticas/por-categoria", withUser(h.CategoryStats)).Methods("GET")
	r.HandleFunc("/api/estatisticas/media-geral", h.UserAverage).Methods("GET")
	r.HandleFunc("/api/estatisticas/media-brasil", h.NationalAverage).Methods("GET")

	r.HandleFunc("/api/comodos", withUser(h.ListRooms)).Methods("GET")
	r.HandleFunc("/api/comodos", withUser(h.CreateRoom)).Methods("POST")
	r.HandleFunc("/api/comodos/{id}", withUser(h.UpdateRoom)).Methods("PUT")
	r.HandleFunc("/api/comodos/{id}", withUser(h.DeleteRoom)).Methods("DELETE")

	r.HandleFunc("/api/aparelhos", withUser(h.CreateAppliance)).Methods("POST")
	r.HandleFunc("/api/aparelhos/comodo/{comodo_id}", withUser(h.ListAppliances)).Methods("GET")
	r.HandleFunc("/api/aparelhos/{id}", withUser(h.UpdateAppliance)).Methods("PUT")
	r.HandleFunc("/api/aparelhos/{id}", withUser(h.DeleteAppliance)).Methods("DELETE")

	var handler http.Handler = r
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", UserHeader}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handler)
	if accessLog != nil {
		handler = handlers.LoggingHandler(accessLog, handler)
	}
	return handler
}

// withUser rejects requests without a valid user identity
func withUser(fn func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(UserHeader)), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+UserHeader)
			return
		}
		fn(w, r, userID)
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the ID assigned to the current request
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
