package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"quizzone/internal/game"
	"quizzone/internal/repository"
	"quizzone/internal/transport/rest/handler"
	"quizzone/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	Registry     *game.Registry
	QuestionSets repository.QuestionSetRepo
	WSHandler    *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(c.Registry)
	qsHandler := handler.NewQuestionSetHandler(c.QuestionSets)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/leaderboard", roomHandler.Leaderboard).Methods("GET", "OPTIONS")

	v1.HandleFunc("/question-sets", qsHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/question-sets", qsHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/question-sets/{id}", qsHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/question-sets/{id}", qsHandler.Delete).Methods("DELETE", "OPTIONS")

	v1.HandleFunc("/ws/rooms/{code}/player", c.WSHandler.PlayerWS).Methods("GET")
	v1.HandleFunc("/ws/rooms/{code}/host", c.WSHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/rooms/{code}/moderator", c.WSHandler.ModeratorWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
