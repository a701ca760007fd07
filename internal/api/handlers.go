package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unaascycling/settlement-recon-backend/internal/api/dto"
	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/storage"
	"github.com/unaascycling/settlement-recon-backend/internal/ingest"
)

// readFeeds pulls both feed files out of the multipart form and parses them.
// Any schema problem comes back as a user-facing validation error.
func (s *Server) readFeeds(c *gin.Context) ([]recon.RawOrder, []recon.RawPayment, bool) {
	orders, ok := s.readOrdersFile(c)
	if !ok {
		return nil, nil, false
	}
	payments, ok := s.readPaymentsFile(c)
	if !ok {
		return nil, nil, false
	}
	return orders, payments, true
}

func (s *Server) readOrdersFile(c *gin.Context) ([]recon.RawOrder, bool) {
	file, err := c.FormFile("orders")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(`missing "orders" file`))
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	defer closeQuietly(f)

	orders, err := ingest.ReadOrders(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return nil, false
	}
	return orders, true
}

func (s *Server) readPaymentsFile(c *gin.Context) ([]recon.RawPayment, bool) {
	file, err := c.FormFile("payments")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(`missing "payments" file`))
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return nil, false
	}
	defer closeQuietly(f)

	payments, err := ingest.ReadPayments(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return nil, false
	}
	return payments, true
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}

// listLocations returns the selectable locations for the uploaded feeds.
func (s *Server) listLocations(c *gin.Context) {
	orders, payments, ok := s.readFeeds(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": s.service.Locations(orders, payments)})
}

// runReconciliation runs one reconciliation for the uploaded feeds and the
// "location" form value.
func (s *Server) runReconciliation(c *gin.Context) {
	location := c.PostForm("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(`missing "location" form value`))
		return
	}

	orders, payments, ok := s.readFeeds(c)
	if !ok {
		return
	}

	result, err := s.service.Reconcile(c.Request.Context(), orders, payments, location)
	if err != nil {
		s.logger.Error("Reconciliation failed", "location", location, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, result)
}

// listRuns returns recent run history, newest first.
func (s *Server) listRuns(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run history"))
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.repo.ListRuns(limit)
	if err != nil {
		s.logger.Error("Failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if runs == nil {
		runs = []*storage.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// getRun returns one run with its full result.
func (s *Server) getRun(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run history"))
		return
	}

	run, err := s.repo.GetRun(c.Param("id"))
	if err != nil {
		s.logger.Error("Failed to load run", "run_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, dto.NotFoundError("run"))
		return
	}
	c.JSON(http.StatusOK, run)
}
