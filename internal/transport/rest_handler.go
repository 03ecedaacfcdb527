package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/service"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/view"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// maxRequestBody bounds the body of a broadcast request.
const maxRequestBody = 4 << 20

const notFoundBody = "Not found"

// RESTHandler serves the explorer REST API.
type RESTHandler struct {
	explorer Explorer
	metrics  HTTPMetrics
	logger   *zap.Logger
}

// NewRESTHandler returns a RESTHandler instance.
func NewRESTHandler(explorer Explorer, metrics HTTPMetrics, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		explorer: explorer,
		metrics:  metrics,
		logger:   logger.Named("rest"),
	}
}

// endpoint answers one route with the value to encode.
type endpoint func(r *http.Request, params map[string]string) (any, error)

// Register mounts the API routes on mux. The gateway mux matches later
// registrations first, so /api/block/latest follows /api/block/{hash}.
func (h *RESTHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method  string
		path    string
		handler endpoint
	}{
		{http.MethodGet, "/api/blocks", h.listBlocks},
		{http.MethodGet, "/api/block/{hash}", h.block},
		{http.MethodGet, "/api/block/latest", h.latestBlock},
		{http.MethodGet, "/api/block-index/{height}", h.blockIndex},
		{http.MethodGet, "/api/tx/{txid}", h.transaction},
		{http.MethodGet, "/api/rawtx/{txid}", h.rawTransaction},
		{http.MethodPost, "/api/tx/send", h.sendTransaction},
		{http.MethodPost, "/api/tx/decode", h.decodeTransaction},
		{http.MethodGet, "/api/txs", h.transactions},
		{http.MethodGet, "/api/addr/{addr}", h.address},
	}
	for _, route := range routes {
		name := route.method + " " + route.path
		if err := mux.HandlePath(route.method, route.path, h.serve(name, route.handler)); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

func (h *RESTHandler) serve(route string, fn endpoint) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		started := time.Now()
		code := http.StatusOK
		resp, err := fn(r, params)
		if err != nil {
			code = h.writeError(w, r, err)
		} else {
			h.writeJSON(w, resp)
		}
		h.metrics.Observe(route, code, started)
	}
}

func (h *RESTHandler) listBlocks(r *http.Request, _ map[string]string) (any, error) {
	query := r.URL.Query()

	var start *uint64
	if raw := query.Get("height"); raw != "" {
		height, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, service.NewInputError(service.CodeInvalidHeight, "Invalid height %q", raw)
		}
		start = &height
	}
	limit, _ := strconv.Atoi(query.Get("limit"))

	return h.explorer.ListBlocks(r.Context(), start, limit)
}

func (h *RESTHandler) block(r *http.Request, params map[string]string) (any, error) {
	return h.explorer.Block(r.Context(), params["hash"])
}

func (h *RESTHandler) latestBlock(r *http.Request, _ map[string]string) (any, error) {
	return h.explorer.LatestBlock(r.Context())
}

func (h *RESTHandler) blockIndex(r *http.Request, params map[string]string) (any, error) {
	raw := params["height"]
	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, service.NewInputError(service.CodeInvalidHeight, "Invalid height %q", raw)
	}
	return h.explorer.BlockIndex(r.Context(), height)
}

func (h *RESTHandler) transaction(r *http.Request, params map[string]string) (any, error) {
	return h.explorer.Transaction(r.Context(), params["txid"], txOptions(r.URL.Query()))
}

func (h *RESTHandler) rawTransaction(r *http.Request, params map[string]string) (any, error) {
	return h.explorer.RawTransaction(r.Context(), params["txid"])
}

type rawTxRequest struct {
	RawTx string `json:"rawtx"`
}

func readRawTx(r *http.Request) (string, error) {
	var req rawTxRequest
	body := io.LimitReader(r.Body, maxRequestBody)
	if err := jsonAPI.NewDecoder(body).Decode(&req); err != nil {
		return "", service.NewInputError(service.CodeInvalidTransaction, "Invalid request body: %v", err)
	}
	return req.RawTx, nil
}

func (h *RESTHandler) sendTransaction(r *http.Request, _ map[string]string) (any, error) {
	raw, err := readRawTx(r)
	if err != nil {
		return nil, err
	}
	return h.explorer.SendTransaction(r.Context(), raw)
}

func (h *RESTHandler) decodeTransaction(r *http.Request, _ map[string]string) (any, error) {
	raw, err := readRawTx(r)
	if err != nil {
		return nil, err
	}
	return h.explorer.DecodeTransaction(r.Context(), raw, txOptions(r.URL.Query()))
}

func (h *RESTHandler) transactions(r *http.Request, _ map[string]string) (any, error) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("pageNum"))

	return h.explorer.Transactions(r.Context(), service.TxListQuery{
		BlockHash: query.Get("block"),
		Address:   query.Get("address"),
		Page:      page,
	}, txOptions(query))
}

func (h *RESTHandler) address(r *http.Request, params map[string]string) (any, error) {
	query := r.URL.Query()
	return h.explorer.Address(r.Context(), params["addr"], service.AddressQuery{
		NoTxList: flag(query, "noTxList"),
		Range:    txRange(query),
	})
}

func (h *RESTHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := jsonAPI.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

// writeError maps err to its response and returns the status written.
func (h *RESTHandler) writeError(w http.ResponseWriter, r *http.Request, err error) int {
	var inputErr *service.InputError
	switch {
	case errors.Is(err, chain.ErrNotFound):
		http.Error(w, notFoundBody, http.StatusNotFound)
		return http.StatusNotFound
	case errors.As(err, &inputErr):
		http.Error(w, inputErr.Error(), http.StatusBadRequest)
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoNewBlock):
		w.WriteHeader(http.StatusRequestTimeout)
		return http.StatusRequestTimeout
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return http.StatusServiceUnavailable
	}
}

func txOptions(query url.Values) view.TxOptions {
	return view.TxOptions{
		NoAsm:       flag(query, "noAsm"),
		NoScriptSig: flag(query, "noScriptSig"),
		NoSpent:     flag(query, "noSpent"),
	}
}

// flag reports whether a boolean query parameter is set. A bare "?name" counts.
func flag(query url.Values, name string) bool {
	if !query.Has(name) {
		return false
	}
	raw := query.Get(name)
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// txRange reads the from/to window of an address transaction list. Both
// bounds must be valid and from must be below to.
func txRange(query url.Values) *chain.Range {
	from, errFrom := strconv.Atoi(query.Get("from"))
	to, errTo := strconv.Atoi(query.Get("to"))
	if errFrom != nil || errTo != nil || from < 0 || to <= from {
		return nil
	}
	return &chain.Range{From: from, To: to}
}
