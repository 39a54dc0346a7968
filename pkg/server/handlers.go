package server

import (
	"encoding/json"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/middleware"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// URLRequest is the query of GET /api/url.
//
// With Query set, the whole query string of URL is replaced. Otherwise the
// parameter Name is set to Value, or removed when Value is empty.
type URLRequest struct {
	URL   string `schema:"url,required"`
	Name  string `schema:"name"`
	Value string `schema:"value"`
	Query string `schema:"query"`
}

// URLResponse is the body returned by GET /api/url.
type URLResponse struct {
	URL string `json:"url"`
}

var urlDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := urlDecoder.Decode(&req, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("E400").Wrap(err))
		return
	}

	var next string
	switch {
	case r.URL.Query().Has("query"):
		next = urlquery.ReplaceQuery(req.URL, req.Query)
	case req.Name != "":
		next = urlquery.Update(req.URL, req.Name, req.Value)
	default:
		writeError(w, http.StatusBadRequest, errors.New("E400").WithDetail("name or query is required"))
		return
	}
	writeJSON(w, http.StatusOK, URLResponse{URL: next})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": s.Tables()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

// metricsHandler serves the registry the table middleware registered with,
// looked up per request since tables may be built after the server.
func metricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		promhttp.HandlerFor(middleware.Gatherer(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *errors.TableError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(err.FormatJSON()))
}
