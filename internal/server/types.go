package server

import (
	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/buildinfo"
	"github.com/matzehuels/jeweler/pkg/catalog"
)

// EnumerateRequest is the body of the enumerate, stream and count routes.
type EnumerateRequest struct {
	// Counts gives how often each color occurs.
	Counts []int `json:"counts" validate:"required,min=1,max=64,dive,gte=1,lte=64"`

	// Mode names the equivalence; empty means bracelet.
	Mode string `json:"mode,omitempty" validate:"omitempty,max=32"`

	// Limit caps results; 0 means all (subject to the server maximum on
	// the collecting route).
	Limit int `json:"limit,omitempty" validate:"gte=0"`

	// Workers splits the search tree; ignored by the streaming route.
	Workers int `json:"workers,omitempty" validate:"gte=0,lte=64"`
}

// CountResponse answers /v1/count.
type CountResponse struct {
	N      int           `json:"n"`
	K      int           `json:"k"`
	Counts []int         `json:"counts"`
	Mode   bracelet.Mode `json:"mode"`
	Count  int           `json:"count"`
}

// ModeInfo describes one enumeration mode.
type ModeInfo struct {
	Name      bracelet.Mode `json:"name"`
	Reflect   bool          `json:"reflect"`
	Aperiodic bool          `json:"aperiodic"`
}

// ModesResponse answers /v1/modes.
type ModesResponse struct {
	Modes []ModeInfo `json:"modes"`
}

// CatalogResponse answers /v1/catalog.
type CatalogResponse struct {
	Records []catalog.Record `json:"records"`
}

// HealthResponse answers /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
