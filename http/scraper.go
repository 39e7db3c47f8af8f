package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/render"

	"github.com/jbekker/capescout"
)

func (s *Server) handleScraperImport(w http.ResponseWriter, r *http.Request) {
	var records []*capescout.Property
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		s.Error(w, r, capescout.Errorf(capescout.EINVALID, "invalid JSON body"))
		return
	}

	stats, err := s.PropertyService.ImportProperties(r.Context(), records)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (s *Server) handleScraperStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.PropertyService.Stats(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// areaResponse pairs a catalog area with its stored listing count.
type areaResponse struct {
	Area          string `json:"area"`
	AreaCode      int    `json:"area_code,omitempty"`
	PropertyCount int    `json:"property_count"`
}

func (s *Server) handleAreaList(w http.ResponseWriter, r *http.Request) {
	counts, err := s.PropertyService.AreaCounts(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	byArea := make(map[string]int, len(counts))
	for _, c := range counts {
		byArea[c.Area] = c.Count
	}

	// Catalog areas first, in catalog order, then any stored areas the
	// catalog doesn't know about.
	out := make([]areaResponse, 0, len(byArea))
	for _, slug := range s.Catalog.Slugs() {
		area, err := s.Catalog.Resolve(slug)
		if err != nil {
			continue
		}
		out = append(out, areaResponse{Area: slug, AreaCode: area.Code, PropertyCount: byArea[slug]})
		delete(byArea, slug)
	}
	extras := make([]string, 0, len(byArea))
	for area := range byArea {
		extras = append(extras, area)
	}
	sort.Strings(extras)
	for _, area := range extras {
		out = append(out, areaResponse{Area: area, PropertyCount: byArea[area]})
	}

	render.JSON(w, r, map[string]any{"areas": out})
}
