package arc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/daryadaneshmand/Oura-data/internal/cycles"
	"github.com/daryadaneshmand/Oura-data/internal/daily"
	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"
	"github.com/daryadaneshmand/Oura-data/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Handler serves the cycle table and the per-cycle arc geometry. The
// geometry is rebuilt on every request, it is pure and cheap.
type Handler struct {
	store *daily.SnapshotStore
}

func NewHandler(router *mux.Router, store *daily.SnapshotStore) *Handler {
	handler := &Handler{store: store}
	router.HandleFunc("/cycles", handler.handleCycles).Methods("GET", "OPTIONS").Name("cycles")
	router.HandleFunc("/arc/{cycleID}", handler.handleArc).Methods("GET", "OPTIONS").Name("arc")
	return handler
}

func (handler *Handler) handleCycles(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "arc.handler.cycles")
	defer span.End()

	cyclesBytes, err := json.Marshal(cycles.All)
	if err != nil {
		log.Errorf("marshal cycles: %s", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cyclesBytes)
}

func (handler *Handler) handleArc(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "arc.handler.arc")
	defer span.End()

	vars := mux.Vars(r)
	cycleID := vars["cycleID"]
	span.SetAttributes(attribute.String("cycle.id", cycleID))

	cycle, ok := cycles.ByID(cycleID)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown cycle: %s", cycleID), http.StatusNotFound)
		return
	}

	frame, err := frameFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := handler.store.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "no daily snapshot yet, run a fetch first", http.StatusNotFound)
			return
		}
		log.Errorf("load daily snapshot: %s", err)
		http.Error(w, "failed to load daily records", http.StatusInternalServerError)
		return
	}

	a := Build(records, cycle, frame)
	span.SetAttributes(attribute.Int("arc.points", len(a.Points)))

	arcBytes, err := json.Marshal(a)
	if err != nil {
		log.Errorf("marshal arc for cycle %s: %s", cycleID, err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, arcBytes)
}

// frameFromQuery builds the drawing frame from the optional w/h query
// params, falling back to the default 800x500 frame. Margins are fixed.
func frameFromQuery(r *http.Request) (Frame, error) {
	frame := DefaultFrame

	if raw := r.URL.Query().Get("w"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			return Frame{}, fmt.Errorf("invalid width: %s", raw)
		}
		frame.Width = w
	}
	if raw := r.URL.Query().Get("h"); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil || h <= 0 {
			return Frame{}, fmt.Errorf("invalid height: %s", raw)
		}
		frame.Height = h
	}

	return frame, nil
}
