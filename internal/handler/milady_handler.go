package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/elevate-api/internal/handler/dto"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"github.com/yourusername/elevate-api/internal/service"
)

// MiladyHandler обрабатывает запросы провижининга доступа Milady
type MiladyHandler struct {
	miladyService *service.MiladyService
}

// NewMiladyHandler создает новый обработчик
func NewMiladyHandler(miladyService *service.MiladyService) *MiladyHandler {
	return &MiladyHandler{
		miladyService: miladyService,
	}
}

// ProcessPayment обрабатывает подтверждённый платёж студента: запускает
// цепочку провижининга и фиксирует итог. Ответ всегда 200: провал вендора
// не должен ронять вызывающий webhook.
func (h *MiladyHandler) ProcessPayment(c *gin.Context) {
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.miladyService.ProcessVendorPayment(
		c.Request.Context(),
		req.EnrollmentID,
		req.StudentID,
		req.ProgramID,
		req.Amount,
	)
	c.JSON(http.StatusOK, result)
}

// MarkProvisioned обрабатывает ручное завершение провижининга администратором
func (h *MiladyHandler) MarkProvisioned(c *gin.Context) {
	var req dto.MarkProvisionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.miladyService.MarkManuallyProvisioned(c.Request.Context(), req.StudentID, req.ProgramSlug, service.MiladyCredentials{
		Username:          req.Username,
		TemporaryPassword: req.TemporaryPassword,
		LicenseCode:       req.LicenseCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error marking provisioned"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProvisioningQueue возвращает очередь ручного провижининга
func (h *MiladyHandler) GetProvisioningQueue(c *gin.Context) {
	items, err := h.miladyService.GetProvisioningQueue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting provisioning queue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": items, "count": len(items)})
}

// GetPendingPayments возвращает незакрытые платежи Milady для ручной сверки
func (h *MiladyHandler) GetPendingPayments(c *gin.Context) {
	summary, err := h.miladyService.GetPendingMiladyPayments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting pending payments"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
