// Package api exposes the scoring engine's two data products — the
// annotated dataset and the population summary — over HTTP, plus the
// recorded scan history.
package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/accesslens/accesslens/internal/dataset"
	"github.com/accesslens/accesslens/internal/risk"
	"github.com/accesslens/accesslens/internal/scanstore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps CSV upload size (8 MB).
const maxUploadBytes = 8 << 20

// errUploadTooLarge is returned when a CSV upload exceeds maxUploadBytes.
// Oversize uploads are rejected outright; scoring a truncated dataset
// would record a partial report as if it were complete.
var errUploadTooLarge = errors.New("csv upload exceeds size limit")

// Handler handles HTTP requests for scoring and scan history.
type Handler struct {
	store      scanstore.Store
	adminToken string // empty = mutating scan-history routes are open
	logger     *zap.Logger
}

// NewHandler creates a Handler backed by the given scan store.
func NewHandler(store scanstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// SetAdminToken enables the shared-secret guard on destructive routes.
func (h *Handler) SetAdminToken(token string) {
	h.adminToken = token
}

// requireAdmin returns a middleware enforcing the admin bearer token, or
// a no-op middleware when no token is configured.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	if h.adminToken == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth != "Bearer "+h.adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}

// Register registers all routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/score", h.ScoreRecords)
	rg.POST("/summary", h.SummarizeRecords)

	scans := rg.Group("/scans")
	{
		scans.POST("", h.CreateScan)
		scans.GET("", h.ListScans)
		scans.GET("/:id", h.GetScan)
		scans.GET("/:id/report", h.GetScanReport)
		scans.DELETE("/:id", h.requireAdmin(), h.DeleteScan)
	}
}

// scoreRequest is the JSON body for POST /score and POST /summary.
// Records carry arbitrary columns; only LastLoginDays, AccessLevel and
// Role influence the score, and everything else passes through.
type scoreRequest struct {
	Records []dataset.Record `json:"records"`
}

// ScoreRecords handles POST /score — annotates the submitted records and
// returns them together with the population summary. Nothing is stored.
func (h *Handler) ScoreRecords(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scored := risk.Annotate(dataset.FromRecords(req.Records))
	summary := risk.Summarize(scored)
	RecordScored(len(scored.Records))

	c.JSON(http.StatusOK, gin.H{
		"records": scored.Records,
		"summary": summary,
	})
}

// SummarizeRecords handles POST /summary — returns only the aggregate
// for the submitted records.
func (h *Handler) SummarizeRecords(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := risk.Summarize(dataset.FromRecords(req.Records))
	RecordScored(summary.TotalUsers)

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// CreateScan handles POST /scans — scores an uploaded CSV export and
// records the run in scan history. Accepts either a multipart form with
// a "file" field or a raw text/csv body. The annotated rows are returned
// but not persisted.
func (h *Handler) CreateScan(c *gin.Context) {
	body, source, err := h.readUpload(c)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, err := dataset.ReadCSV(bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv: " + err.Error()})
		return
	}

	scored := risk.Annotate(ds)
	summary := risk.Summarize(scored)
	RecordScored(scored.Len())

	scan := &scanstore.Scan{
		Source:       source,
		TotalRecords: scored.Len(),
		Summary:      summary,
	}
	if err := h.store.Save(c.Request.Context(), scan); err != nil {
		h.logger.Error("save scan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record scan"})
		return
	}
	RecordScanSaved()

	h.logger.Info("scan recorded",
		zap.String("scan_id", scan.ID.String()),
		zap.String("source", scan.Source),
		zap.Int("records", scan.TotalRecords),
		zap.Int("high_risk", summary.HighRiskTotal),
	)

	c.JSON(http.StatusCreated, gin.H{
		"scan":    scan,
		"columns": scored.Columns,
		"records": scored.Records,
	})
}

// readUpload extracts the CSV payload and a source label from the request.
// Payloads over maxUploadBytes fail with errUploadTooLarge — never a
// silent truncation.
func (h *Handler) readUpload(c *gin.Context) ([]byte, string, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", errors.New(`multipart upload requires a "file" field`)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		body, err := readCapped(f)
		if err != nil {
			return nil, "", err
		}
		return body, fh.Filename, nil
	}

	body, err := readCapped(c.Request.Body)
	if err != nil {
		return nil, "", err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, "", errors.New("empty request body")
	}
	source := c.Query("source")
	if source == "" {
		source = "upload.csv"
	}
	return body, source, nil
}

// readCapped reads at most maxUploadBytes from r. One extra byte is read
// to tell an at-the-limit payload apart from an oversize one.
func readCapped(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxUploadBytes {
		return nil, errUploadTooLarge
	}
	return body, nil
}

// ListScans handles GET /scans — paginated scan history, newest first.
func (h *Handler) ListScans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	scans, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list scans", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans":  scans,
		"limit":  limit,
		"offset": offset,
	})
}

// GetScan handles GET /scans/:id.
func (h *Handler) GetScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan ID"})
		return
	}

	scan, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, scanstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		h.logger.Error("get scan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scan": scan})
}

// GetScanReport handles GET /scans/:id/report — returns the recorded
// population summary for a scan. The scored rows themselves are not
// persisted; re-running the scan regenerates them.
func (h *Handler) GetScanReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan ID"})
		return
	}

	scan, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, scanstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		h.logger.Error("get scan report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scan_id":       scan.ID,
		"source":        scan.Source,
		"total_records": scan.TotalRecords,
		"summary":       scan.Summary,
		"created_at":    scan.CreatedAt,
	})
}

// DeleteScan handles DELETE /scans/:id.
func (h *Handler) DeleteScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan ID"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, scanstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		h.logger.Error("delete scan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete scan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
