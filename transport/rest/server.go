package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type sessionCounter interface {
	Count() int
}

// Start - serves the plain HTTP side: liveness ping and a sessions gauge.
func Start(port string, sessions sessionCounter) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"sessions": sessions.Count()}); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
