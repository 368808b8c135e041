package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/xtding233/wishsim/internal/gacha"
	"github.com/xtding233/wishsim/internal/service"
)

var svc *service.Service

type errResp struct {
	Err string `json:"err"`
}

type okResp struct {
	OK bool `json:"ok"`
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /banners", handleBanners)
	mux.HandleFunc("GET /state", handleState)
	mux.HandleFunc("POST /wish", handleWish)
	mux.HandleFunc("POST /wish_ten", handleWishTen)
	mux.HandleFunc("POST /reset", handleReset)
	mux.HandleFunc("GET /history", handleHistory)
	mux.HandleFunc("DELETE /history", handleClearHistory)
	mux.HandleFunc("GET /stats", handleStats)
	mux.HandleFunc("GET /predict", handlePredict)
	return mux
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch service.Classify(err) {
	case service.KindNotFound:
		code = http.StatusNotFound
	case service.KindInvalid:
		code = http.StatusBadRequest
	default:
		log.Errorf("request failed: %v", err)
	}
	writeJSON(w, code, errResp{Err: err.Error()})
}

// banner id from the query, falling back to a JSON body {"banner": "..."}
func bannerParam(r *http.Request) string {
	if b := r.URL.Query().Get("banner"); b != "" {
		return b
	}
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	var body struct {
		Banner string `json:"banner"`
	}
	_ = json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body)
	return body.Banner
}

func handleBanners(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("all") == ""
	writeJSON(w, http.StatusOK, map[string]any{"banners": svc.Banners(active)})
}

func handleState(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("banner")
	pity, err := svc.Status(key)
	if err != nil {
		writeErr(w, err)
		return
	}
	if key == "" {
		writeJSON(w, http.StatusOK, map[string]any{"pity": pity})
		return
	}
	st, err := svc.State(key)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st, "pity": pity[0]})
}

func handleWish(w http.ResponseWriter, r *http.Request) {
	n, ok, msg := parseInt(r, "count")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !ok {
		n = 1
	}
	res, err := svc.Wish(bannerParam(r), n)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func handleWishTen(w http.ResponseWriter, r *http.Request) {
	res, err := svc.WishTen(bannerParam(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func handleReset(w http.ResponseWriter, r *http.Request) {
	if err := svc.Reset(bannerParam(r)); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _, msg := parseInt(r, "limit")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	recs, err := svc.History(r.URL.Query().Get("banner"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": recs})
}

func handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := svc.ClearHistory(r.URL.Query().Get("banner")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := svc.Stats(r.URL.Query().Get("banner"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	trials, _, msg := parseInt(r, "trials")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	var budget [3]int
	for i, key := range []string{"budget", "primogems", "fates"} {
		if budget[i], _, msg = parseInt(r, key); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
	}
	p, err := svc.Predict(service.PredictParams{
		Banner:    r.URL.Query().Get("banner"),
		Goal:      gacha.TrialGoal(r.URL.Query().Get("goal")),
		Trials:    trials,
		Budget:    budget[0],
		Primogems: budget[1],
		Fates:     budget[2],
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
