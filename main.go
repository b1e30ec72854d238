package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/lpresolve"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

type resolveReq struct {
	Address string `json:"address"`
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONMaybePretty(w http.ResponseWriter, status int, v interface{}, pretty bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func newMux(resolver *lpresolve.Resolver, requestTimeout time.Duration) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Simple HTML form for browser use (GET)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`
<!doctype html>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Solana LP Resolver</title>
<div style="font: 16px system-ui; max-width: 900px; margin: 40px auto; line-height:1.5;">
  <h1 style="margin:0 0 16px;">Solana LP / mint resolver</h1>
  <form action="/resolve" method="get">
    <label>Address<br>
      <input name="address" style="width: 100%; padding: 8px;" placeholder="Paste a mint or pool address" autofocus>
    </label>
    <div style="margin: 12px 0;">
      <label><input type="checkbox" name="pretty" value="1" checked> pretty</label>
    </div>
    <button type="submit" style="padding: 8px 14px;">Resolve</button>
  </form>
  <p style="margin-top: 24px; color:#666;">This form issues a GET to <code>/resolve?address=...&pretty=1</code>.</p>
</div>
`))
	})

	// Resolve endpoint: supports POST (JSON) and GET (?address=...&pretty=1)
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		pretty := r.URL.Query().Get("pretty") == "1" || r.URL.Query().Get("pretty") == "true"

		var addr string
		switch r.Method {
		case http.MethodPost:
			var req resolveReq
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid JSON body"}, pretty)
				return
			}
			addr = req.Address
		case http.MethodGet:
			addr = r.URL.Query().Get("address")
		default:
			writeJSONMaybePretty(w, http.StatusMethodNotAllowed, apiError{Error: "method_not_allowed"}, pretty)
			return
		}

		if addr == "" {
			writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "address is required"}, pretty)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		res, err := resolver.ResolveString(ctx, addr)
		if err != nil {
			if errors.Is(err, types.ErrMalformed) {
				writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid address (base58)"}, pretty)
				return
			}
			writeJSONMaybePretty(w, http.StatusInternalServerError, apiError{Error: "resolve_error", Details: err.Error()}, pretty)
			return
		}

		switch res.Outcome {
		case types.OUTCOME_NOT_FOUND:
			writeJSONMaybePretty(w, http.StatusNotFound, res, pretty)
		case types.OUTCOME_CANCELLED:
			writeJSONMaybePretty(w, http.StatusGatewayTimeout, res, pretty)
		default:
			writeJSONMaybePretty(w, http.StatusOK, res, pretty)
		}
	})

	return mux
}

func main() {
	cfg, err := lpresolve.ConfigFromEnv()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := lpresolve.NewLogger(cfg.LogLevel)

	names, err := lpresolve.NewNameCache()
	if err != nil {
		log.Fatalf("name cache: %v", err)
	}
	resolver, err := lpresolve.NewFromConfig(cfg,
		lpresolve.WithLogger(log),
		lpresolve.WithNameCache(names),
	)
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}

	// Each stage call is bounded by cfg.Timeout; the request gets room for the whole chain.
	requestTimeout := 4 * cfg.Timeout

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newMux(resolver, requestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.WithFields(logrus.Fields{
		"addr":            cfg.ListenAddr,
		"stage_timeout":   cfg.Timeout,
		"request_timeout": requestTimeout,
	}).Info("listening")
	log.Fatal(srv.ListenAndServe())
}
