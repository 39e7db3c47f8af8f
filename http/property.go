package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jbekker/capescout"
)

// propertyResponse augments a stored property with its computed metrics.
type propertyResponse struct {
	*capescout.Property
	PricePerSqm  *float64 `json:"price_per_sqm"`
	DaysOnMarket *int     `json:"days_on_market"`
	IsDeal       bool     `json:"is_deal"`
}

func newPropertyResponse(p *capescout.Property) propertyResponse {
	return propertyResponse{
		Property:     p,
		PricePerSqm:  p.PricePerSqm(),
		DaysOnMarket: p.DaysOnMarket(time.Now()),
		IsDeal:       p.IsDeal(),
	}
}

func (s *Server) handlePropertyList(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePropertyFilter(r.URL.Query())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	props, total, err := s.PropertyService.FindProperties(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, newPropertyResponse(p))
	}
	render.JSON(w, r, map[string]any{"total": total, "properties": out})
}

func (s *Server) handlePropertyGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.PropertyService.FindPropertyByID(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, newPropertyResponse(p))
}

func (s *Server) handlePropertyCreate(w http.ResponseWriter, r *http.Request) {
	var p capescout.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.Error(w, r, capescout.Errorf(capescout.EINVALID, "invalid JSON body"))
		return
	}

	if err := s.PropertyService.CreateProperty(r.Context(), &p); err != nil {
		s.Error(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newPropertyResponse(&p))
}

func (s *Server) handlePropertyUpdate(w http.ResponseWriter, r *http.Request) {
	var upd capescout.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.Error(w, r, capescout.Errorf(capescout.EINVALID, "invalid JSON body"))
		return
	}

	p, err := s.PropertyService.UpdateProperty(r.Context(), chi.URLParam(r, "propertyID"), upd)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, newPropertyResponse(p))
}

func (s *Server) handlePropertyView(w http.ResponseWriter, r *http.Request) {
	views, err := s.PropertyService.IncrementViews(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"total_views": views})
}

func (s *Server) handlePropertyLike(w http.ResponseWriter, r *http.Request) {
	likes, err := s.PropertyService.IncrementLikes(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"total_likes": likes})
}

func (s *Server) handlePropertyCleanup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var del capescout.PropertyDelete
	if v := q.Get("area"); v != "" {
		del.Area = &v
	}
	days, err := queryInt(q, "older_than_days")
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if days != nil {
		cutoff := time.Now().UTC().AddDate(0, 0, -*days)
		del.OlderThan = &cutoff
	}

	deleted, err := s.PropertyService.DeleteProperties(r.Context(), del)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"deleted": deleted})
}

// parsePropertyFilter builds a PropertyFilter from list query parameters.
func parsePropertyFilter(q url.Values) (capescout.PropertyFilter, error) {
	var filter capescout.PropertyFilter
	var err error

	if v := q.Get("area"); v != "" {
		filter.Area = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if filter.MinPrice, err = queryInt(q, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryInt(q, "max_price"); err != nil {
		return filter, err
	}
	if filter.Bedrooms, err = queryInt(q, "bedrooms"); err != nil {
		return filter, err
	}

	skip, err := queryInt(q, "skip")
	if err != nil {
		return filter, err
	}
	if skip != nil {
		filter.Offset = *skip
	}
	limit, err := queryInt(q, "limit")
	if err != nil {
		return filter, err
	}
	if limit != nil {
		filter.Limit = *limit
	}

	return filter, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, capescout.Errorf(capescout.EINVALID, "invalid %s %q", name, v)
	}
	return &n, nil
}
