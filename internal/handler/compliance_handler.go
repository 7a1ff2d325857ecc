package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/elevate-api/internal/handler/dto"
	"github.com/yourusername/elevate-api/internal/middleware"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"github.com/yourusername/elevate-api/internal/service"
)

// ComplianceHandler обрабатывает запросы Compliance Gate
type ComplianceHandler struct {
	complianceService *service.ComplianceService
}

// NewComplianceHandler создает новый обработчик
func NewComplianceHandler(complianceService *service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{
		complianceService: complianceService,
	}
}

// CheckStatus обрабатывает запрос на проверку доступа текущего пользователя.
// Контекст доступа передаётся query-параметром (по умолчанию student).
func (h *ComplianceHandler) CheckStatus(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	accessContext := c.DefaultQuery("context", service.ContextStudent)

	status := h.complianceService.CheckStatus(userID, accessContext)
	c.JSON(http.StatusOK, status)
}

// SignAgreement обрабатывает подписание соглашения
func (h *ComplianceHandler) SignAgreement(c *gin.Context) {
	var req dto.SignAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	acceptance, err := h.complianceService.RecordAgreementAcceptance(service.AgreementAcceptanceParams{
		UserID:          c.GetString(middleware.ContextUserID),
		AgreementType:   req.AgreementType,
		DocumentVersion: req.DocumentVersion,
		SignerName:      req.SignerName,
		SignerEmail:     req.SignerEmail,
		AuthEmail:       c.GetString(middleware.ContextUserEmail),
		SignatureMethod: req.SignatureMethod,
		SignatureData:   req.SignatureData,
		ProgramID:       req.ProgramID,
		TenantID:        req.TenantID,
		OrganizationID:  req.OrganizationID,
		Client:          middleware.GetClientMeta(c),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.WriteResultResponse{Success: true, ID: acceptance.ID})
}

// GetAgreements возвращает историю подписаний текущего пользователя
func (h *ComplianceHandler) GetAgreements(c *gin.Context) {
	agreements, err := h.complianceService.GetUserAgreements(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting agreements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}

// GetAgreementVersions возвращает актуальные версии документов по типам
func (h *ComplianceHandler) GetAgreementVersions(c *gin.Context) {
	versions, err := h.complianceService.GetCurrentAgreementVersions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting agreement versions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// AcknowledgeHandbook обрабатывает подтверждение справочника
func (h *ComplianceHandler) AcknowledgeHandbook(c *gin.Context) {
	var req dto.AcknowledgeHandbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	ack, err := h.complianceService.RecordHandbookAcknowledgment(service.HandbookAcknowledgmentParams{
		UserID:          c.GetString(middleware.ContextUserID),
		HandbookVersion: req.HandbookVersion,
		Attendance:      req.Attendance,
		DressCode:       req.DressCode,
		Conduct:         req.Conduct,
		Safety:          req.Safety,
		GrievancePolicy: req.GrievancePolicy,
		TenantID:        req.TenantID,
		Client:          middleware.GetClientMeta(c),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.WriteResultResponse{Success: true, ID: ack.ID})
}

// UpdateProgress обрабатывает обновление одного шага онбординга
func (h *ComplianceHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	err := h.complianceService.UpdateOnboardingProgress(
		c.GetString(middleware.ContextUserID),
		c.Param("step"),
		req.Completed,
	)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.WriteResultResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.WriteResultResponse{Success: true})
}
