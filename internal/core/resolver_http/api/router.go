// Package api exposes the resolver mux over HTTP so the smoke tooling and
// local development can exercise it without an AppSync deployment.
package api

import (
	"io/ioutil"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/blogcore/post-resolver/internal/core/post_resolver/appsync"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRouter builds the HTTP surface. The body of POST /resolve is the same
// payload AppSync would send the Lambda.
func NewRouter(resolvers *appsync.Mux, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/resolve", resolveHandler(resolvers, log)).Methods(http.MethodPost)
	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return router
}

func resolveHandler(resolvers *appsync.Mux, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		value, err := resolvers.Invoke(r.Context(), body)
		if err != nil {
			log.Warn("invocation failed", zap.String("requestId", requestID), zap.Error(err))
			writeJSON(w, http.StatusBadRequest, map[string]string{"errorMessage": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, value)
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonAPI.NewEncoder(w).Encode(value)
}
