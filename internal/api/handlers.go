package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
)

// starRequest mirrors catalog.Star with optional fields so that missing
// values are told apart from zeros.
type starRequest struct {
	Name   string   `json:"name"`
	RA     *float64 `json:"ra"`
	Dec    *float64 `json:"dec"`
	Epoch  *float64 `json:"epoch"`
	Period *float64 `json:"period"`
}

func (r starRequest) star() (catalog.Star, error) {
	if r.RA == nil || r.Dec == nil || r.Epoch == nil || r.Period == nil {
		return catalog.Star{}, &catalog.ValidationError{Reason: "Please fill all fields."}
	}
	st := catalog.Star{Name: strings.TrimSpace(r.Name), RAdeg: *r.RA, DecDeg: *r.Dec, Epoch: *r.Epoch, Period: *r.Period}
	if err := st.Validate(); err != nil {
		return catalog.Star{}, err
	}
	return st, nil
}

// handleListStars returns the catalog in insertion order.
// GET /api/v1/stars
func (s *Server) handleListStars(c *gin.Context) {
	stars := s.deps.Store.Stars()
	c.JSON(http.StatusOK, gin.H{
		"data": stars,
		"meta": gin.H{"count": len(stars)},
	})
}

// handleAddStar registers a star. An existing name is replaced only with
// overwrite=true.
// POST /api/v1/stars
func (s *Server) handleAddStar(c *gin.Context) {
	var req starRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	star, err := req.star()
	if err != nil {
		abortWithError(c, err)
		return
	}

	var confirm func(catalog.Star) bool
	if overwrite := c.Query("overwrite"); overwrite != "" {
		ok, err := strconv.ParseBool(overwrite)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid overwrite parameter"})
			return
		}
		if ok {
			confirm = catalog.Overwrite
		}
	}

	_, err = s.deps.Store.Add(star, confirm)
	s.metrics.catalogStars.Set(float64(s.deps.Store.Len()))
	if err != nil {
		var perr *catalog.PersistenceError
		if errors.As(err, &perr) {
			s.deps.Logger.Error("add %s: %v", star.Name, err)
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": star})
}

// handleDeleteStar removes a star by exact name.
// DELETE /api/v1/stars/:name
func (s *Server) handleDeleteStar(c *gin.Context) {
	name := c.Param("name")
	removed, err := s.deps.Store.Delete(name)
	s.metrics.catalogStars.Set(float64(s.deps.Store.Len()))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("star %q not found", name)})
		return
	}
	c.Status(http.StatusNoContent)
}

// handlePlan computes the night's schedule for every registered star.
// GET /api/v1/plan?date=YYYY-MM-DD
func (s *Server) handlePlan(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = s.deps.Now().In(s.deps.Scheduler.Site().Location()).Format(plan.DateLayout)
	}

	sched, err := s.deps.Scheduler.Plan(date, s.deps.Store.Stars())
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.metrics.plansTotal.Inc()
	s.metrics.planFailuresTotal.Add(float64(len(sched.Failures)))

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := plan.Export(sched).WriteJSON(c.Writer); err != nil {
		s.deps.Logger.Error("write plan: %v", err)
	}
}

// handleLookup resolves coordinates and ephemeris for a name. Partial
// answers are returned with 200 and the failing half's error.
// GET /api/v1/lookup/:name
func (s *Server) handleLookup(c *gin.Context) {
	if s.deps.Resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lookups disabled"})
		return
	}
	name := c.Param("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.deps.Timeout)
	defer cancel()

	res := s.deps.Resolver.Resolve(ctx, name)
	s.metrics.observeLookup("position", res.PositionErr)
	s.metrics.observeLookup("ephemeris", res.EphemerisErr)

	status := http.StatusOK
	if res.Err() != nil {
		status = http.StatusBadGateway
		if errors.Is(res.PositionErr, lookup.ErrNotFound) && errors.Is(res.EphemerisErr, lookup.ErrNotFound) {
			status = http.StatusNotFound
		}
	}
	c.JSON(status, res)
}
