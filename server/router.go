package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// StatusRoutes serves the live status endpoints.
type StatusRoutes interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	RefreshStatus(w http.ResponseWriter, r *http.Request)
	StatusWebSocket(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

// HoursRoutes serves the schedule endpoints.
type HoursRoutes interface {
	GetHours(w http.ResponseWriter, r *http.Request)
	GetEffectiveHours(w http.ResponseWriter, r *http.Request)
	GetHoursChart(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	statusHandler StatusRoutes
	hoursHandler  HoursRoutes
	router        *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	statusHandler StatusRoutes,
	hoursHandler HoursRoutes,
	router *mux.Router) *Router {
	return &Router{
		statusHandler: statusHandler,
		hoursHandler:  hoursHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/v1/status", r.statusHandler.GetStatus).Methods("GET")
	r.router.HandleFunc("/v1/status/refresh", r.statusHandler.RefreshStatus).Methods("POST")
	r.router.HandleFunc("/v1/status/ws", r.statusHandler.StatusWebSocket).Methods("GET")

	r.router.HandleFunc("/v1/hours", r.hoursHandler.GetHours).Methods("GET")
	// expects ?date={YYYY-MM-DD}, defaults to today in the venue timezone
	r.router.HandleFunc("/v1/hours/effective", r.hoursHandler.GetEffectiveHours).Methods("GET")
	r.router.HandleFunc("/v1/hours/chart", r.hoursHandler.GetHoursChart).Methods("GET")

	r.router.HandleFunc("/ping", r.statusHandler.Ping).Methods("GET")
}
