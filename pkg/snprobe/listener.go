package snprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sasha-s/go-deadlock"
	"github.com/sni/shelltoken"
)

var promChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "snprobe_checks_total",
		Help: "number of executed checks by name and resulting state",
	},
	[]string{"check", "state"},
)

func init() {
	prometheus.MustRegister(promChecksTotal)
}

// WebServer exposes the registered probes over HTTP for monitoring
// servers that prefer pulling results instead of spawning plugins.
type WebServer struct {
	snc    *Agent
	server *http.Server
	mu     deadlock.Mutex
}

type checkResponse struct {
	Check     string   `json:"check"`
	State     int64    `json:"state"`
	StateText string   `json:"state_text"`
	Output    string   `json:"output"`
	Perfdata  []string `json:"perfdata,omitempty"`
}

// NewWebServer creates a server bound to the given address.
func NewWebServer(snc *Agent, bind string) *WebServer {
	ws := &WebServer{snc: snc}

	router := chi.NewRouter()
	router.Get("/api/v1/checks", ws.listHandler)
	router.Get("/api/v1/checks/{name}", ws.checkHandler)
	router.Handle("/metrics", promhttp.Handler())

	ws.server = &http.Server{
		Addr:         bind,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	return ws
}

// Start blocks and serves requests until Stop is called.
func (ws *WebServer) Start() error {
	log.Infof("starting http listener on %s", ws.server.Addr)
	err := ws.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listener %s: %s", ws.server.Addr, err.Error())
	}

	return nil
}

// Stop shuts the listener down gracefully.
func (ws *WebServer) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ws.server.Shutdown(ctx); err != nil {
		log.Errorf("listener shutdown: %s", err.Error())
	}
}

func (ws *WebServer) listHandler(res http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(AvailableChecks))
	for name := range AvailableChecks {
		names = append(names, name)
	}
	sort.Strings(names)
	sendJSON(res, http.StatusOK, map[string]interface{}{"checks": names})
}

// checkHandler runs a probe. Arguments come either as one quoted
// command line in ?args=... or as repeated ?arg=... parameters.
func (ws *WebServer) checkHandler(res http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	if _, ok := AvailableChecks[name]; !ok {
		sendJSON(res, http.StatusNotFound, map[string]interface{}{"error": fmt.Sprintf("no such check: %s", name)})

		return
	}

	args := req.URL.Query()["arg"]
	if cmdLine := req.URL.Query().Get("args"); cmdLine != "" {
		_, parsed, err := shelltoken.SplitLinux(cmdLine)
		if err != nil {
			sendJSON(res, http.StatusBadRequest, map[string]interface{}{"error": fmt.Sprintf("parsing args: %s", err.Error())})

			return
		}
		args = append(args, parsed...)
	}

	result := ws.snc.RunCheck(req.Context(), name, args)
	promChecksTotal.WithLabelValues(name, result.StateString()).Inc()

	perfdata := make([]string, 0, len(result.Metrics))
	for _, metric := range result.Metrics {
		perfdata = append(perfdata, metric.String())
	}
	sendJSON(res, http.StatusOK, checkResponse{
		Check:     name,
		State:     result.State,
		StateText: result.StateString(),
		Output:    result.Output,
		Perfdata:  perfdata,
	})
}

func sendJSON(res http.ResponseWriter, code int, payload interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(code)
	if err := json.NewEncoder(res).Encode(payload); err != nil {
		log.Errorf("sending response: %s", err.Error())
	}
}
