package httpapi

import (
	"net/http"

	"bearcart-analytics/internal/application/dashboard"

	"github.com/gin-gonic/gin"
)

type selectRangeRequest struct {
	Range string `json:"range"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	timeRange, err := rangeParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	view, err := s.dashboard.Dashboard(c.Request.Context(), timeRange)
	if err != nil {
		s.writeSourceError(c, err)
		return
	}
	writeData(c, http.StatusOK, view)
}

func (s *Server) handleExport(c *gin.Context) {
	timeRange, err := rangeParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	view, err := s.dashboard.Dashboard(c.Request.Context(), timeRange)
	if err != nil {
		s.writeSourceError(c, err)
		return
	}
	out, err := s.dashboard.ExportCSV(view)
	if err != nil {
		writeError(c, http.StatusInternalServerError, errCodeInternal, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename(view.Range)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

// handleCurrent 回傳最後一次被採用的快照所組裝的儀表板；尚未載入時回 503。
func (s *Server) handleCurrent(c *gin.Context) {
	view, ok := s.loader.CurrentView()
	if !ok {
		msg := dashboard.ErrNoSnapshot.Error()
		if err := s.loader.LastError(); err != nil {
			msg = err.Error()
		}
		writeError(c, http.StatusServiceUnavailable, errCodeSnapshotNotReady, msg)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"selected": s.loader.Selected(),
		"data":     view,
	})
}

// handleSelectRange 記錄區間並於背景載入，較舊的回應會被丟棄。
func (s *Server) handleSelectRange(c *gin.Context) {
	var req selectRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}
	timeRange, err := normalizeRange(req.Range)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	selected := s.loader.Select(timeRange)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"range":   selected,
	})
}
