package handlers

import (
	"net/http"

	"fire-server/src/projection"
)

// GetProjection runs the investment projection from the latest month.
func GetProjection(sessions SessionProvider, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		plan := projection.BuildPlan(sess.Months(), sess.Config(), sess.Schema(), now())
		writeJSON(w, http.StatusOK, plan)
	}
}
