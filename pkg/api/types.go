package api

import (
	"time"

	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/search"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchResponse is a rendered page. Error is set, with empty results, when
// the backend failed.
type SearchResponse struct {
	search.Results
	Error string `json:"error,omitempty"`
}

type TagsResponse struct {
	Query string            `json:"query"`
	Tags  []facets.TagFacet `json:"tags"`
	Count int               `json:"count"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
}

// Client message types accepted on the search socket.
const (
	MsgQuery        = "query"
	MsgRefresh      = "refresh"
	MsgSeed         = "seed"
	MsgEntity       = "entity"
	MsgTags         = "tags"
	MsgNext         = "next"
	MsgPrev         = "prev"
	MsgHistory      = "history"
	MsgClearHistory = "clear_history"
)

// Server message types pushed on the search socket.
const (
	MsgInit  = "init"
	MsgView  = "view"
	MsgError = "error"
)

type ClientMessage struct {
	Type    string   `json:"type"`
	Query   string   `json:"query,omitempty"`
	View    string   `json:"view,omitempty"`
	Entity  string   `json:"entity,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type ServerMessage struct {
	Type    string       `json:"type"`
	Session string       `json:"session,omitempty"`
	View    *search.View `json:"view,omitempty"`
	History []string     `json:"history,omitempty"`
	Error   string       `json:"error,omitempty"`
}
