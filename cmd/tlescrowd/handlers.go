package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/tlescrow"
	"github.com/iov-one/tlescrow/app"
	"github.com/iov-one/tlescrow/errors"
	"github.com/iov-one/tlescrow/ledger"
	"github.com/tendermint/tendermint/libs/log"
)

type server struct {
	app    *app.App
	logger log.Logger
	debug  bool
}

func newServer(a *app.App, logger log.Logger, debug bool) *server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &server{app: a, logger: logger, debug: debug}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/tx", s.submitTx)
	r.Get("/accounts/{address}", s.account)
	r.Get("/escrows/{address}", s.escrow)
	r.Post("/slot/advance", s.advanceSlot)
	r.Get("/version", s.version)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).String())
	})
}

type txResult struct {
	Slot uint64 `json:"slot"`
}

func (s *server) submitTx(w http.ResponseWriter, r *http.Request) {
	var tx ledger.Tx
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&tx); err != nil {
		JSONErr(w, http.StatusBadRequest, "cannot decode transaction: "+err.Error())
		return
	}
	if err := s.app.Execute(&tx); err != nil {
		s.writeErr(w, err)
		return
	}
	JSONResp(w, http.StatusOK, txResult{Slot: s.app.Slot()})
}

type accountView struct {
	Address  tlescrow.Address `json:"address"`
	Lamports uint64           `json:"lamports"`
	Owner    tlescrow.Address `json:"owner"`
	Data     []byte           `json:"data"`
}

func (s *server) account(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	acc, err := s.app.Account(addr)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if acc.Lamports == 0 {
		JSONErr(w, http.StatusNotFound, "account not found")
		return
	}
	JSONResp(w, http.StatusOK, accountView{
		Address:  acc.Key,
		Lamports: acc.Lamports,
		Owner:    acc.Owner,
		Data:     acc.Data,
	})
}

func (s *server) escrow(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	view, err := s.app.Escrow(addr)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	JSONResp(w, http.StatusOK, view)
}

type advanceRequest struct {
	Slots uint64 `json:"slots"`
}

func (s *server) advanceSlot(w http.ResponseWriter, r *http.Request) {
	req := advanceRequest{Slots: 1}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JSONErr(w, http.StatusBadRequest, "cannot decode request: "+err.Error())
			return
		}
	}
	slot, err := s.app.AdvanceSlot(req.Slots)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	JSONResp(w, http.StatusOK, txResult{Slot: slot})
}

func (s *server) version(w http.ResponseWriter, r *http.Request) {
	JSONResp(w, http.StatusOK, struct {
		Version string `json:"version"`
		ChainID string `json:"chain_id"`
	}{
		Version: tlescrow.Version(),
		ChainID: s.app.ChainID(),
	})
}

func addressParam(w http.ResponseWriter, r *http.Request) (tlescrow.Address, bool) {
	addr, err := tlescrow.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "address must be base58 encoded")
		return addr, false
	}
	return addr, true
}

type errorResponse struct {
	Code   uint32   `json:"code"`
	Errors []string `json:"errors"`
}

// writeErr responds with the registered code of the error. Errors without
// a code are reported as internal unless running in debug mode.
func (s *server) writeErr(w http.ResponseWriter, err error) {
	code, msg := errors.Info(err, s.debug)
	status := http.StatusBadRequest
	switch {
	case errors.ErrNotFound.Is(err), errors.ErrUninitializedAccount.Is(err):
		status = http.StatusNotFound
	case errors.ErrMissingSignature.Is(err):
		status = http.StatusUnauthorized
	case errors.ErrPanic.Is(err), code == 1:
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	JSONResp(w, status, errorResponse{Code: code, Errors: []string{msg}})
}

// JSONResp writes content as a JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr writes a single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONResp(w, code, errorResponse{Errors: []string{errText}})
}
