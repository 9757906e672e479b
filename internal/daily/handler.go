package daily

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"
	"github.com/daryadaneshmand/Oura-data/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler serves the merged day records from the snapshot.
type Handler struct {
	store *SnapshotStore
}

func NewHandler(router *mux.Router, store *SnapshotStore) *Handler {
	handler := &Handler{store: store}
	router.HandleFunc("/daily", handler.handleList).Methods("GET", "OPTIONS").Name("daily")
	return handler
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "daily.handler.list")
	defer span.End()

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

	recordsBytes, err := json.Marshal(records)
	if err != nil {
		log.Errorf("marshal daily records: %s", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recordsBytes)
}
