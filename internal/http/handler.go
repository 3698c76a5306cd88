package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-portal/internal/http/middleware"
	"github.com/nurpe/wasteops-portal/internal/model"
	"github.com/nurpe/wasteops-portal/internal/service"
)

type Handler struct {
	auth        *service.AuthService
	reports     *service.ReportService
	collections *service.CollectionService
	dashboard   *service.DashboardService
	exports     *service.ExportService
	poller      *service.Poller
	log         zerolog.Logger
}

func NewHandler(
	auth *service.AuthService,
	reports *service.ReportService,
	collections *service.CollectionService,
	dashboard *service.DashboardService,
	exports *service.ExportService,
	poller *service.Poller,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		reports:     reports,
		collections: collections,
		dashboard:   dashboard,
		exports:     exports,
		poller:      poller,
		log:         log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api")
	api.POST("/signup", h.signUp)
	api.POST("/login", h.logIn)
	api.POST("/save-user", h.saveUser)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/me", h.me)

	citizen := protected.Group("/")
	citizen.Use(middleware.RequireRole(model.RoleCitizen))
	citizen.POST("/reports", h.createReport)
	citizen.GET("/reports/me", h.myReports)

	admin := protected.Group("/")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/reports", h.listReports)
	admin.PATCH("/reports/:id/status", h.updateReportStatus)
	admin.GET("/pickers", h.listPickers)
	admin.GET("/dashboard/summary", h.dashboardSummary)
	admin.GET("/dashboard/top-pickers", h.topPickers)
	admin.GET("/dashboard/export", h.exportDailyExcel)
	admin.GET("/dashboard/export/pdf", h.exportDailyPDF)

	picker := protected.Group("/")
	picker.Use(middleware.RequireRole(model.RolePicker))
	picker.POST("/collections", h.logCollection)
	picker.POST("/collections/scan", h.parseScan)
	picker.GET("/collections/stats", h.collectionStats)
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	profile, err := h.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signup successful",
		"user":    profileResponseFrom(*profile),
	})
}

type logInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) logIn(c *gin.Context) {
	var req logInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    profileResponseFrom(result.Profile),
		"token":   result.Token,
	})
}

type saveUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *Handler) saveUser(c *gin.Context) {
	var req saveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	citizen, err := h.auth.SaveCitizen(c.Request.Context(), req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}
		h.log.Error().Err(err).Msg("save user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"full_name": citizen.FullName,
			"email":     citizen.Email,
		},
	})
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	profile, err := h.auth.Me(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponseFrom(*profile))
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	input := service.CreateReportInput{
		Principal:   principal,
		IssueType:   c.PostForm("issue_type"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Ward:        c.PostForm("ward"),
	}

	if file, err := c.FormFile("photo"); err == nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable photo"})
			return
		}
		defer opened.Close()
		input.Photo = opened
		input.PhotoName = file.Filename
		input.PhotoContentType = file.Header.Get("Content-Type")
	}

	report, err := h.reports.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reportResponseFrom(*report))
}

func (h *Handler) myReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	reports, err := h.reports.ListForUser(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reportResponsesFrom(reports)})
}

func (h *Handler) listReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	reports, err := h.reports.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reportResponsesFrom(reports)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateReportStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), principal, id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportResponseFrom(*report))
}

func (h *Handler) listPickers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	pickers, err := h.dashboard.PickerRoster(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickers": profileResponsesFrom(pickers)})
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	// Serve the poller's snapshot when available; fall back to an
	// on-demand computation before the first cycle completes.
	if snapshot, ok := h.poller.Latest(); ok {
		c.JSON(http.StatusOK, snapshotResponseFrom(*snapshot))
		return
	}

	snapshot, err := h.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponseFrom(*snapshot))
}

func (h *Handler) topPickers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	pickers, err := h.dashboard.TopPickers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickers": topPickerResponsesFrom(pickers)})
}

func (h *Handler) exportDailyExcel(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.exports.DailyExcel(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) exportDailyPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.exports.DailyPDF(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

type logCollectionRequest struct {
	ScanText       string `json:"scan_text"`
	BinID          string `json:"bin_id"`
	Ward           string `json:"ward"`
	Location       string `json:"location"`
	WasteType      string `json:"waste_type"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *Handler) logCollection(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req logCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collections.Log(c.Request.Context(), service.LogCollectionInput{
		Principal:      principal,
		ScanText:       req.ScanText,
		BinID:          req.BinID,
		Ward:           req.Ward,
		Location:       req.Location,
		WasteType:      req.WasteType,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Collection logged successfully",
		"collection": collectionResponseFrom(*collection),
	})
}

type parseScanRequest struct {
	ScanText string `json:"scan_text" binding:"required"`
}

func (h *Handler) parseScan(c *gin.Context) {
	var req parseScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scan_text is required"})
		return
	}

	fields := h.collections.ParseScan(req.ScanText)
	c.JSON(http.StatusOK, gin.H{
		"bin_id": fields.BinID,
		"ward":   fields.Ward,
	})
}

func (h *Handler) collectionStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	stats, err := h.collections.PickerDayStats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_collections": stats.TotalCollections,
		"wards_covered":     stats.WardsCovered,
		"success_rate":      stats.SuccessRate,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func profileResponseFrom(profile model.Profile) profileResponse {
	return profileResponse{
		ID:    profile.ID.String(),
		Name:  profile.Name,
		Email: profile.Email,
		Role:  string(profile.Role),
	}
}

func profileResponsesFrom(profiles []model.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, profileResponseFrom(profile))
	}
	return out
}

type reportResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	IssueType   string    `json:"issue_type"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	Location    string    `json:"location"`
	Ward        string    `json:"ward"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func reportResponseFrom(report model.Report) reportResponse {
	return reportResponse{
		ID:          report.ID.String(),
		UserID:      report.UserID.String(),
		IssueType:   report.IssueType,
		Description: report.Description,
		PhotoURL:    report.PhotoURL,
		Location:    report.Location,
		Ward:        report.Ward,
		Status:      string(report.Status),
		CreatedAt:   report.CreatedAt,
	}
}

func reportResponsesFrom(reports []model.Report) []reportResponse {
	out := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, reportResponseFrom(report))
	}
	return out
}

type collectionResponse struct {
	ID         string    `json:"id"`
	PickerID   string    `json:"picker_id"`
	PickerName string    `json:"picker_name"`
	BinID      string    `json:"bin_id"`
	Ward       string    `json:"ward"`
	Location   string    `json:"location"`
	WasteType  string    `json:"waste_type"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

func collectionResponseFrom(collection model.Collection) collectionResponse {
	return collectionResponse{
		ID:         collection.ID.String(),
		PickerID:   collection.PickerID.String(),
		PickerName: collection.PickerName,
		BinID:      collection.BinID,
		Ward:       collection.Ward,
		Location:   collection.Location,
		WasteType:  collection.WasteType,
		Success:    collection.Success,
		CreatedAt:  collection.CreatedAt,
	}
}

type topPickerResponse struct {
	PickerID      string  `json:"picker_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	BinsCollected int64   `json:"bins_collected"`
	SuccessRate   float64 `json:"success_rate"`
}

func topPickerResponsesFrom(pickers []model.TopPicker) []topPickerResponse {
	out := make([]topPickerResponse, 0, len(pickers))
	for _, picker := range pickers {
		out = append(out, topPickerResponse{
			PickerID:      picker.PickerID.String(),
			Name:          picker.Name,
			Email:         picker.Email,
			BinsCollected: picker.BinsCollected,
			SuccessRate:   picker.SuccessRate,
		})
	}
	return out
}

type wasteSliceResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type snapshotResponse struct {
	TotalBins         int64                `json:"total_bins"`
	ActivePickers     int64                `json:"active_pickers"`
	CollectionsToday  int64                `json:"collections_today"`
	PendingComplaints int64                `json:"pending_complaints"`
	SuccessRate       float64              `json:"success_rate"`
	WasteComposition  []wasteSliceResponse `json:"waste_composition"`
	TotalWaste        int64                `json:"total_waste"`
	RecentReports     []reportResponse     `json:"recent_reports"`
	Pickers           []profileResponse    `json:"pickers"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

func snapshotResponseFrom(snapshot model.DashboardSnapshot) snapshotResponse {
	slices := make([]wasteSliceResponse, 0, len(snapshot.WasteComposition))
	for _, slice := range snapshot.WasteComposition {
		slices = append(slices, wasteSliceResponse{Name: slice.Name, Value: slice.Value})
	}
	return snapshotResponse{
		TotalBins:         snapshot.TotalBins,
		ActivePickers:     snapshot.ActivePickers,
		CollectionsToday:  snapshot.CollectionsToday,
		PendingComplaints: snapshot.PendingComplaints,
		SuccessRate:       snapshot.SuccessRate,
		WasteComposition:  slices,
		TotalWaste:        snapshot.TotalWaste,
		RecentReports:     reportResponsesFrom(snapshot.RecentReports),
		Pickers:           profileResponsesFrom(snapshot.Pickers),
		GeneratedAt:       snapshot.GeneratedAt,
	}
}
