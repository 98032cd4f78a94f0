// Package server exposes the quiz, calculation and chat endpoints over
// HTTP.
//
// Routes are served by gorilla/mux behind CORS, panic recovery, request
// ids and an access log. Prometheus metrics are kept in a registry owned
// by the server and exposed at /metrics.
package server
