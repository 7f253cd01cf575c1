package server

import (
	"encoding/json"
	"mime"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("server: encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func (h *Handler) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("server: write response", zap.Error(err))
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
