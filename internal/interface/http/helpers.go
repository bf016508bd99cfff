package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bearcart-analytics/internal/domain/metrics"
	"bearcart-analytics/internal/infra/memory"

	"github.com/gin-gonic/gin"
)

const maxRangeLen = 32

var errInvalidRange = errors.New("range must be 1-32 letters, digits, '-' or '_'")

// rangeParam 讀取 range 查詢參數；區間是不透明標籤，只檢查字元集。
func rangeParam(c *gin.Context) (string, error) {
	return normalizeRange(c.Query("range"))
}

func normalizeRange(raw string) (string, error) {
	r := metrics.NormalizeRange(raw)
	if len(r) > maxRangeLen {
		return "", errInvalidRange
	}
	for _, ch := range r {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
		default:
			return "", errInvalidRange
		}
	}
	return r, nil
}

// writeSourceError 將資料來源錯誤對應為 HTTP 狀態與錯誤碼。
func (s *Server) writeSourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, memory.ErrRangeNotFound):
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		writeError(c, http.StatusServiceUnavailable, errCodeUpstreamUnavailable, "request cancelled")
	default:
		s.log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Warn("metrics source failed")
		writeError(c, http.StatusBadGateway, errCodeUpstreamUnavailable, err.Error())
	}
}

func exportFilename(timeRange string) string {
	return fmt.Sprintf("bearcart-dashboard-%s.csv", strings.ToLower(timeRange))
}
