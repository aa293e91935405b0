package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fire-server/src/models"

	"github.com/rs/zerolog/log"
)

// maxImportBytes bounds an uploaded export file.
const maxImportBytes = 10 << 20

// ExportMonths downloads the records as a JSON array, the same format
// ImportMonths accepts.
func ExportMonths(sessions SessionProvider, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		filename := fmt.Sprintf("fire-data-%s.json", now().Format("2006-01-02"))
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		writeJSON(w, http.StatusOK, sess.Months())
	}
}

// ImportMonths replaces every record with the uploaded array. Nothing
// changes when the body is not a valid export.
func ImportMonths(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var records []models.MonthRecord
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err := dec.Decode(&records); err != nil {
			log.Warn().Err(err).Msg("rejected import")
			http.Error(w, "the file is not a valid data export", http.StatusBadRequest)
			return
		}
		if len(records) == 0 {
			http.Error(w, "the file contains no months", http.StatusBadRequest)
			return
		}
		for _, rec := range records {
			if rec.ID.IsZero() {
				http.Error(w, "every month needs an id", http.StatusBadRequest)
				return
			}
		}

		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		if err := sess.Replace(records); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("user_id", sess.UserID()).Int("months", len(records)).Msg("imported months")
		writeMonths(w, sess)
	}
}
