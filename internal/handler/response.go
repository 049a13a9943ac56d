package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geoqr/internal/geo"
	"geoqr/internal/middleware"
	"geoqr/internal/model"
	"geoqr/internal/service"
)

// OutsideAreaMessage 访客不在范围内时返回给前端的提示
const OutsideAreaMessage = "You are outside the allowed area."

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error  string `json:"error" example:"链接不存在或已过期"`
	Reason string `json:"reason" example:"not_found"`
}

// DeniedResponse 位置校验未通过
type DeniedResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"You are outside the allowed area."`
	Reason  string `json:"reason" example:"outside_area"`
}

// LocationResponse 坐标
type LocationResponse struct {
	Lat float64 `json:"lat" example:"20.0"`
	Lng float64 `json:"lng" example:"78.0"`
}

// LinkResponse 链接完整信息, 只返回给所有者
type LinkResponse struct {
	ID             string           `json:"id" example:"5f0c6f7e-2a0b-4c43-9d3f-0f1e2d3c4b5a"`
	Slug           string           `json:"slug" example:"k3x9qa"`
	DestinationURL string           `json:"destinationUrl" example:"https://example.com/secret"`
	Location       LocationResponse `json:"location"`
	Geohash        string           `json:"geohash" example:"tf6f2x4jc"`
	Radius         float64          `json:"radius" example:"100"`
	User           string           `json:"user,omitempty" example:"u-42"`
	CreatedBy      string           `json:"createdBy" example:"anon-123"`
	ScanCount      int64            `json:"scanCount" example:"3"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toLocation(p geo.Point) LocationResponse {
	return LocationResponse{Lat: p.Lat, Lng: p.Lng}
}

func toLinkResponse(l *model.GeoLink) LinkResponse {
	return LinkResponse{
		ID:             l.ID,
		Slug:           l.Slug,
		DestinationURL: l.DestinationURL,
		Location:       toLocation(l.Location()),
		Geohash:        l.Geohash,
		Radius:         l.Radius,
		User:           l.UserID,
		CreatedBy:      l.CreatedBy,
		ScanCount:      l.ScanCount,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func abortWith(c *gin.Context, status int, msg, reason string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Reason: reason})
}

// respondError 把业务错误映射为 HTTP 响应
func (h *GeoLinkHandler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWith(c, http.StatusBadRequest, verr.Message, verr.Reason)
	case errors.Is(err, service.ErrNotFound):
		abortWith(c, http.StatusNotFound, service.ErrNotFound.Error(), "not_found")
	case errors.Is(err, service.ErrOutsideArea):
		c.AbortWithStatusJSON(http.StatusForbidden, DeniedResponse{
			Success: false,
			Error:   OutsideAreaMessage,
			Reason:  "outside_area",
		})
	case errors.Is(err, service.ErrQuotaExceeded):
		abortWith(c, http.StatusForbidden, service.ErrQuotaExceeded.Error(), "quota_exceeded")
	case errors.Is(err, service.ErrForbidden):
		abortWith(c, http.StatusForbidden, service.ErrForbidden.Error(), "forbidden")
	case errors.Is(err, service.ErrConflict):
		abortWith(c, http.StatusConflict, service.ErrConflict.Error(), "duplicate_slug")
	default:
		h.logger.Errorw("请求处理失败",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(middleware.ContextRequestID),
		)
		abortWith(c, http.StatusInternalServerError, "服务器内部错误", "internal")
	}
}
