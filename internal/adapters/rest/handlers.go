package rest

import (
	"encoding/json"
	"net/http"

	"apt-sync-service/internal/contextkeys"
	usecases_port "apt-sync-service/internal/core/port/usecases"
)

// SyncHandlers — HTTP-обработчики триггерной поверхности сервиса
type SyncHandlers struct {
	runSync usecases_port.RunSyncPort
}

func NewSyncHandlers(runSync usecases_port.RunSyncPort) *SyncHandlers {
	return &SyncHandlers{runSync: runSync}
}

// HandleRunSync запускает полный прогон планировщика и возвращает отчет.
// Прогон синхронный: внешний шедулер (cron) дергает эндпоинт и ждет итог.
func (h *SyncHandlers) HandleRunSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextkeys.LoggerFromContext(ctx)

	report, err := h.runSync.Execute(ctx)
	if err != nil {
		logger.Error("Sync run aborted", err, nil)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toRunReportDTO(report))
}

func (h *SyncHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
