package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salesreports/internal/core/apperror"
	"salesreports/internal/core/id"
	"salesreports/internal/domain/salesreport"
	"salesreports/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for sales reports.
type ReportsHandler struct {
	*BaseHandler
	wizard *salesreport.Wizard
	now    func() time.Time
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, wizard *salesreport.Wizard) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		wizard:      wizard,
		now:         time.Now,
	}
}

// scope builds the explicit report scope from the authenticated user.
func (h *ReportsHandler) scope(c *gin.Context) salesreport.Scope {
	scope := salesreport.Scope{Today: h.now().UTC().Truncate(24 * time.Hour)}
	if user := h.User(c); user != nil {
		scope.UserID = user.UserID
		scope.CompanyID = user.CompanyID
		scope.CompanyName = user.CompanyName
	}
	return scope
}

// GetWizardDefaults handles GET /reports/sales/wizard
func (h *ReportsHandler) GetWizardDefaults(c *gin.Context) {
	start := h.wizard.Start(h.scope(c), h.User(c))
	h.OK(c, dto.FromWizardStart(start))
}

// GenerateJSON handles POST /reports/sales
func (h *ReportsHandler) GenerateJSON(c *gin.Context) {
	ctx := c.Request.Context()

	start, ok := h.bindStart(c)
	if !ok {
		return
	}

	result, err := h.wizard.Aggregate(ctx, h.scope(c), start)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAggregationResult(result))
}

// GenerateDocument handles POST /reports/sales/document
func (h *ReportsHandler) GenerateDocument(c *gin.Context) {
	ctx := c.Request.Context()

	start, ok := h.bindStart(c)
	if !ok {
		return
	}

	report, err := h.wizard.Generate(ctx, h.scope(c), start)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Data(http.StatusOK, report.ContentType, report.Document)
}

// bindStart parses the request into wizard parameters.
func (h *ReportsHandler) bindStart(c *gin.Context) (salesreport.WizardStart, bool) {
	var req dto.SalesReportRequest
	if !h.BindJSON(c, &req) {
		return salesreport.WizardStart{}, false
	}

	startDate, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid startDate, expected YYYY-MM-DD"))
		return salesreport.WizardStart{}, false
	}
	endDate, err := time.Parse(dto.DateLayout, req.EndDate)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid endDate, expected YYYY-MM-DD"))
		return salesreport.WizardStart{}, false
	}

	start := salesreport.WizardStart{
		StartDate:        startDate,
		EndDate:          endDate,
		DetailedPayments: req.DetailedPayments,
	}

	if start.CustomerID, err = parseOptionalID(req.CustomerID); err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId"))
		return salesreport.WizardStart{}, false
	}
	if start.ProductID, err = parseOptionalID(req.ProductID); err != nil {
		h.Error(c, apperror.NewValidation("invalid productId"))
		return salesreport.WizardStart{}, false
	}
	if start.ChannelID, err = parseOptionalID(req.ChannelID); err != nil {
		h.Error(c, apperror.NewValidation("invalid channelId"))
		return salesreport.WizardStart{}, false
	}

	return start, true
}

func parseOptionalID(s *string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales/wizard", h.GetWizardDefaults)
	rg.POST("/sales", h.GenerateJSON)
	rg.POST("/sales/document", h.GenerateDocument)
}
