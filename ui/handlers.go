package ui

import (
	stderrors "errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"tabula/adapters/csvsplit"
	"tabula/adapters/excel"
	"tabula/domain/core"
	"tabula/domain/dataset"
	"tabula/domain/ingest"
	"tabula/domain/policy"
	"tabula/ports"
)

// strategyRequest is the wire form of a tagged strategy.
type strategyRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

// configRequest is the wire form of ingest.Config.
type configRequest struct {
	SkipRows                  int                        `json:"skip_rows"`
	HeaderRow                 int                        `json:"header_row"`
	TargetColumn              string                     `json:"target_column,omitempty"`
	FeatureColumns            []string                   `json:"feature_columns,omitempty"`
	PreviewLimit              int                        `json:"preview_limit,omitempty"`
	GlobalStrategy            *strategyRequest           `json:"global_strategy,omitempty"`
	ColumnStrategies          map[string]strategyRequest `json:"column_strategies,omitempty"`
	DisableTargetDropFallback bool                       `json:"disable_target_drop_fallback,omitempty"`
}

func (r configRequest) toConfig() (ingest.Config, error) {
	cfg := ingest.Config{
		SkipRows:                  r.SkipRows,
		HeaderRow:                 r.HeaderRow,
		TargetColumn:              r.TargetColumn,
		FeatureColumns:            r.FeatureColumns,
		PreviewLimit:              r.PreviewLimit,
		DisableTargetDropFallback: r.DisableTargetDropFallback,
	}

	if r.GlobalStrategy != nil {
		s, err := toStrategy(*r.GlobalStrategy)
		if err != nil {
			return ingest.Config{}, err
		}
		cfg.GlobalStrategy = s
	}
	if len(r.ColumnStrategies) > 0 {
		cfg.ColumnStrategies = make(map[string]policy.Strategy, len(r.ColumnStrategies))
		for col, sr := range r.ColumnStrategies {
			s, err := toStrategy(sr)
			if err != nil {
				return ingest.Config{}, err
			}
			cfg.ColumnStrategies[col] = s
		}
	}
	return cfg, nil
}

func toStrategy(r strategyRequest) (policy.Strategy, error) {
	kind, err := policy.ParseKind(r.Kind)
	if err != nil {
		return policy.Strategy{}, err
	}
	return policy.Strategy{Kind: kind, Value: r.Value}, nil
}

// handleOpenSession accepts an uploaded document (multipart "file" field or
// the raw request body) and opens an ingestion session. The splitter is
// chosen by filename extension; the default preview is returned immediately.
func (s *Server) handleOpenSession(c *gin.Context) {
	filename, raw, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := s.service.Open(c.Request.Context(), filename, raw, SplitterFor(filename))
	if err != nil {
		respondError(c, err)
		return
	}

	preview, err := session.Preview(ingest.Config{})
	if err != nil {
		// Structural defaults can fail (e.g. single-row file); the session
		// still exists so the operator can adjust skip/header rows.
		log.Printf("[API] session %s default preview failed: %v", session.ID, err)
		c.JSON(http.StatusCreated, gin.H{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"preview":    preview,
	})
}

func readUpload(c *gin.Context) (string, []byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}
		return file.Filename, raw, nil
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", nil, err
	}
	return c.GetHeader("X-Filename"), raw, nil
}

// SplitterFor picks the row splitter by filename extension: .xlsx goes to
// the workbook splitter, .tsv to a tab-delimited one, everything else is
// treated as comma-delimited text.
func SplitterFor(filename string) ports.RowSplitter {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return excel.NewSplitter()
	case ".tsv":
		return csvsplit.NewSplitterWithDelimiter('\t')
	default:
		return csvsplit.NewSplitter()
	}
}

// handlePreview re-runs the preview for an edited configuration.
func (s *Server) handlePreview(c *gin.Context) {
	session, ok := s.service.Get(core.SessionID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	cfg, ok := bindConfig(c)
	if !ok {
		return
	}

	preview, err := session.Preview(cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// handleConfirm finalizes the session into an immutable dataset.
func (s *Server) handleConfirm(c *gin.Context) {
	session, ok := s.service.Get(core.SessionID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	cfg, ok := bindConfig(c)
	if !ok {
		return
	}

	ds, err := s.service.Finalize(c.Request.Context(), session, cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleCloseSession(c *gin.Context) {
	s.service.Close(core.SessionID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDataset(c *gin.Context) {
	ds, err := s.service.Dataset(c.Request.Context(), core.DatasetID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

// handleDatasetReport renders the markdown ingestion report as HTML.
func (s *Server) handleDatasetReport(c *gin.Context) {
	ds, err := s.service.Dataset(c.Request.Context(), core.DatasetID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", RenderReportHTML(ds))
}

func bindConfig(c *gin.Context) (ingest.Config, bool) {
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration payload: " + err.Error()})
		return ingest.Config{}, false
	}
	cfg, err := req.toConfig()
	if err != nil {
		respondError(c, err)
		return ingest.Config{}, false
	}
	return cfg, true
}

// limitViolations extracts the structured violation list when finalize was
// refused on size limits.
func limitViolations(err error) []ingest.LimitViolation {
	var le *dataset.LimitError
	if stderrors.As(err, &le) {
		return le.Violations
	}
	return nil
}
