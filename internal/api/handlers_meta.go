package api

import (
	"encoding/json"
	"net/http"

	"github.com/radiorasclat/api/internal/radio"
)

// liveInfo fetches the playout snapshot and serves one sub-payload of it,
// passed through untouched.
func (rt *Router) liveInfo(w http.ResponseWriter, r *http.Request, pick func(*radio.LiveInfo) json.RawMessage) {
	info, err := rt.radio.LiveInfo(r.Context())
	if err != nil {
		rt.logger.Error("live info fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, failMsg("The automation system could not be reached."))
		return
	}
	writeRaw(w, http.StatusOK, pick(info))
}

func (rt *Router) handleLiveInfo(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Station })
}

func (rt *Router) handlePreviousTrack(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Tracks.Previous })
}

func (rt *Router) handleCurrentTrack(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Tracks.Current })
}

func (rt *Router) handleNextTrack(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Tracks.Next })
}

func (rt *Router) handlePreviousShow(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Shows.Previous })
}

func (rt *Router) handleCurrentShow(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Shows.Current })
}

func (rt *Router) handleNextShow(w http.ResponseWriter, r *http.Request) {
	rt.liveInfo(w, r, func(i *radio.LiveInfo) json.RawMessage { return i.Shows.Next })
}

func (rt *Router) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := rt.radio.Schedule(r.Context())
	if err != nil {
		rt.logger.Error("schedule fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, failMsg("The automation system could not be reached."))
		return
	}
	writeRaw(w, http.StatusOK, schedule)
}

func (rt *Router) handleLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := rt.translate.Languages(r.Context())
	if err != nil {
		rt.logger.Error("language fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, failMsg("The translation service could not be reached."))
		return
	}
	writeRaw(w, http.StatusOK, languages)
}

func (rt *Router) handleChangelog(repo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		releases, err := rt.changelog.Releases(r.Context(), repo)
		if err != nil {
			rt.logger.Error("release fetch failed", "repo", repo, "error", err)
			writeJSON(w, http.StatusBadGateway, failMsg("The release list could not be loaded."))
			return
		}
		writeRaw(w, http.StatusOK, releases)
	}
}

func (rt *Router) handleStatus(w http.ResponseWriter, r *http.Request) {
	monitors, err := rt.uptime.Monitors(r.Context())
	if err != nil {
		rt.logger.Error("monitor fetch failed", "error", err)
		writeJSON(w, http.StatusBadGateway, failMsg("The status monitors could not be loaded."))
		return
	}
	writeRaw(w, http.StatusOK, monitors)
}
