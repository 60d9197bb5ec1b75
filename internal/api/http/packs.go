package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/rbac"
	"github.com/mind-engage/certprep/internal/storage"
)

const maxPackBody = 8 << 20

// MountPacks serves uploaded bank packs under the admin router.
func MountPacks(r chi.Router, bs storage.BlobStore, reg *bank.Registry) {
	// PUT /packs/{name}   body: pack JSON
	r.With(rbac.Require(rbac.PermPacksWrite)).Put("/{name}", func(w http.ResponseWriter, r *http.Request) {
		key, err := bank.PackKey(chi.URLParam(r, "name"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPackBody))
		if err != nil {
			respondError(w, http.StatusRequestEntityTooLarge, "pack too large")
			return
		}
		p, err := bank.DecodePack(raw)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if _, err := bs.Put(r.Context(), key, bytes.NewReader(raw), int64(len(raw))); err != nil {
			respondError(w, http.StatusInternalServerError, "store error: "+err.Error())
			return
		}
		if err := reg.Reload(r.Context()); err != nil {
			respondError(w, http.StatusInternalServerError, "reload: "+err.Error())
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"key":        key,
			"tracks":     len(p.Tracks),
			"acronyms":   len(p.Acronyms),
			"sequencing": len(p.Sequencing),
			"matching":   len(p.Matching),
			"config":     len(p.Config),
		})
	})

	// GET /packs/   -> stored pack keys
	r.With(rbac.Require(rbac.PermPacksView)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		keys, err := bs.List(r.Context(), bank.PackPrefix)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if keys == nil {
			keys = []string{}
		}
		respondJSON(w, http.StatusOK, keys)
	})

	// GET /packs/*   -> the raw pack at whatever follows /packs/
	r.With(rbac.Require(rbac.PermPacksView)).Get("/*", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		key, err := bank.PackKey(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		rc, err := bs.Get(r.Context(), key)
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	})
}
