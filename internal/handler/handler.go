package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geoqr/internal/geo"
	"geoqr/internal/middleware"
	"geoqr/internal/model"
	"geoqr/internal/service"
	"geoqr/internal/validation"
)

// CreatedByHeader 匿名所有者标识也可以通过请求头传递
const CreatedByHeader = "X-Created-By"

// GeoLinkHandler 处理器
type GeoLinkHandler struct {
	links  *service.LinkService
	logger *zap.SugaredLogger
}

// NewGeoLinkHandler 创建处理器实例
func NewGeoLinkHandler(links *service.LinkService, logger *zap.SugaredLogger) *GeoLinkHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &GeoLinkHandler{links: links, logger: logger.Named("geolink_handler")}
}

// RegisterRoutes 注册 /api 下的路由
func (h *GeoLinkHandler) RegisterRoutes(api gin.IRoutes) {
	api.POST("/create", h.CreateLink)
	api.GET("/links/:slug", h.GetLinkMeta)
	api.POST("/verify/:slug", h.VerifyLocation)
	api.GET("/user-links", h.ListUserLinks)
	api.PUT("/links/:id", h.UpdateLink)
	api.DELETE("/links/:id", h.DeleteLink)
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *GeoLinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// LocationRequest 坐标, 0 是合法值所以使用指针
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required,lat" example:"20.0"`
	Lng *float64 `json:"lng" binding:"required,lng" example:"78.0"`
}

func (l *LocationRequest) point() *geo.Point {
	if l == nil {
		return nil
	}
	return &geo.Point{Lat: *l.Lat, Lng: *l.Lng}
}

// CreateLinkRequest 创建请求
type CreateLinkRequest struct {
	DestinationURL string           `json:"destinationUrl" example:"https://example.com/secret"`
	Location       *LocationRequest `json:"location"`
	Radius         float64          `json:"radius" example:"100"`
	CreatedBy      string           `json:"createdBy" example:"anon-123"`
	User           string           `json:"user,omitempty" example:"u-42"`
}

// CreateLinkResponse 创建成功
type CreateLinkResponse struct {
	Slug      string `json:"slug" example:"k3x9qa"`
	SystemURL string `json:"systemUrl" example:"https://geoqr.example/l/k3x9qa"`
	QRCode    string `json:"qrCode" example:"https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=https%3A%2F%2Fgeoqr.example%2Fl%2Fk3x9qa"`
}

// CreateLink godoc
// @Summary 创建地理链接
// @Description 绑定坐标和半径, 只有位于半径内的访客能拿到目标地址
// @Tags GeoLink
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param link body CreateLinkRequest true "链接信息"
// @Success 201 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse "缺少字段或参数不合法"
// @Failure 403 {object} ErrorResponse "超出配额或用户不匹配"
// @Failure 409 {object} ErrorResponse "短码冲突, 可重试"
// @Failure 500 {object} ErrorResponse
// @Router /api/create [post]
func (h *GeoLinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "无效的请求数据: "+err.Error(), validation.Reason(err))
		return
	}

	userID, plan := middleware.CurrentUser(c)
	// 只信任令牌中的用户, 未认证时忽略 body 中的 user
	if req.User != "" && userID != "" && req.User != userID {
		h.respondError(c, service.ErrForbidden)
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = c.GetHeader(CreatedByHeader)
	}

	res, err := h.links.Create(c.Request.Context(), service.CreateInput{
		DestinationURL: req.DestinationURL,
		Location:       req.Location.point(),
		Radius:         req.Radius,
		Owner:          model.Owner{UserID: userID, CreatedBy: createdBy},
		Plan:           plan,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateLinkResponse{
		Slug:      res.Link.Slug,
		SystemURL: res.SystemURL,
		QRCode:    res.QRCode,
	})
}

// MetadataResponse 访客页面使用的公开信息
type MetadataResponse struct {
	Location LocationResponse `json:"location"`
	Radius   float64          `json:"radius" example:"100"`
}

// GetLinkMeta godoc
// @Summary 获取链接坐标和半径
// @Description 公开接口, 不返回目标地址
// @Tags GeoLink
// @Produce json
// @Param slug path string true "短码"
// @Success 200 {object} MetadataResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/links/{slug} [get]
func (h *GeoLinkHandler) GetLinkMeta(c *gin.Context) {
	meta, err := h.links.GetMetadataBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MetadataResponse{Location: toLocation(meta.Location), Radius: meta.Radius})
}

// VerifyResponse 校验通过
type VerifyResponse struct {
	Success        bool   `json:"success" example:"true"`
	DestinationURL string `json:"destinationUrl" example:"https://example.com/secret"`
}

// VerifyLocation godoc
// @Summary 校验访客位置
// @Description 访客位于半径内时返回目标地址并累计扫描次数
// @Tags GeoLink
// @Accept json
// @Produce json
// @Param slug path string true "短码"
// @Param location body LocationRequest true "访客坐标"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} DeniedResponse "不在允许的范围内"
// @Failure 404 {object} ErrorResponse
// @Router /api/verify/{slug} [post]
func (h *GeoLinkHandler) VerifyLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reason := validation.Reason(err)
		if reason == validation.ReasonMissingFields {
			reason = validation.ReasonInvalidLocation
		}
		abortWith(c, http.StatusBadRequest, "无效的坐标: "+err.Error(), reason)
		return
	}

	res, err := h.links.Verify(c.Request.Context(), c.Param("slug"), *req.point())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{Success: true, DestinationURL: res.DestinationURL})
}

// ListUserLinks godoc
// @Summary 列出所有者的链接
// @Description 按创建时间倒序; userId 必须与令牌中的用户一致
// @Tags GeoLink
// @Security ApiKeyAuth
// @Produce json
// @Param userId query string false "用户 ID"
// @Param createdBy query string false "匿名所有者标识"
// @Success 200 {array} LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/user-links [get]
func (h *GeoLinkHandler) ListUserLinks(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	var owner model.Owner
	if q := c.Query("userId"); q != "" {
		if q != userID {
			h.respondError(c, service.ErrForbidden)
			return
		}
		owner.UserID = q
	} else {
		owner.CreatedBy = requesterCreatedBy(c)
		if owner.CreatedBy == "" {
			owner.UserID = userID
		}
	}

	links, err := h.links.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]LinkResponse, 0, len(links))
	for i := range links {
		out = append(out, toLinkResponse(&links[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateLinkRequest 只修改传入的字段
type UpdateLinkRequest struct {
	DestinationURL *string          `json:"destinationUrl,omitempty" example:"https://example.com/new"`
	Radius         *float64         `json:"radius,omitempty" example:"150"`
	Location       *LocationRequest `json:"location,omitempty"`
	CreatedBy      string           `json:"createdBy,omitempty" example:"anon-123"`
}

// UpdateLinkResponse 更新成功
type UpdateLinkResponse struct {
	Success bool         `json:"success" example:"true"`
	Data    LinkResponse `json:"data"`
}

// UpdateLink godoc
// @Summary 修改链接
// @Description 只有所有者可以修改目标地址、半径和坐标
// @Tags GeoLink
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "链接 ID"
// @Param createdBy query string false "匿名所有者标识"
// @Param link body UpdateLinkRequest true "要修改的字段"
// @Success 200 {object} UpdateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/links/{id} [put]
func (h *GeoLinkHandler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "无效的请求数据: "+err.Error(), validation.Reason(err))
		return
	}

	requester := requesterOf(c)
	if requester.CreatedBy == "" {
		requester.CreatedBy = req.CreatedBy
	}

	link, err := h.links.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		DestinationURL: req.DestinationURL,
		Radius:         req.Radius,
		Location:       req.Location.point(),
	}, requester)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UpdateLinkResponse{Success: true, Data: toLinkResponse(link)})
}

// DeleteLink godoc
// @Summary 删除链接
// @Tags GeoLink
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "链接 ID"
// @Param createdBy query string false "匿名所有者标识"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/links/{id} [delete]
func (h *GeoLinkHandler) DeleteLink(c *gin.Context) {
	if err := h.links.Delete(c.Request.Context(), c.Param("id"), requesterOf(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Link removed"})
}

func requesterOf(c *gin.Context) model.Owner {
	userID, _ := middleware.CurrentUser(c)
	return model.Owner{UserID: userID, CreatedBy: requesterCreatedBy(c)}
}

func requesterCreatedBy(c *gin.Context) string {
	if v := c.Query("createdBy"); v != "" {
		return v
	}
	return c.GetHeader(CreatedByHeader)
}
