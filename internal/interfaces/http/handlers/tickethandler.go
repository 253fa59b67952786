package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedesk/internal/application/ticket/usecases"
	"tradedesk/internal/shared/logger"
	"tradedesk/internal/shared/utils"
)

type TicketHandler struct {
	openTicketUC          openTicketUseCase
	claimTicketUC         claimTicketUseCase
	submitTradeUC         submitTradeUseCase
	confirmTradeUC        confirmTradeUseCase
	cancelTradeUC         cancelTradeUseCase
	requestClosureUC      requestClosureUseCase
	confirmFinalizationUC confirmFinalizationUseCase
	revokeFinalizationUC  revokeFinalizationUseCase
	closeTicketUC         closeTicketUseCase
	submitReviewUC        submitReviewUseCase
	getTicketUC           getTicketUseCase
	middlemanProfileUC    middlemanProfileUseCase
	logger                logger.Interface
}

func NewTicketHandler(
	openTicketUC openTicketUseCase,
	claimTicketUC claimTicketUseCase,
	submitTradeUC submitTradeUseCase,
	confirmTradeUC confirmTradeUseCase,
	cancelTradeUC cancelTradeUseCase,
	requestClosureUC requestClosureUseCase,
	confirmFinalizationUC confirmFinalizationUseCase,
	revokeFinalizationUC revokeFinalizationUseCase,
	closeTicketUC closeTicketUseCase,
	submitReviewUC submitReviewUseCase,
	getTicketUC getTicketUseCase,
	middlemanProfileUC middlemanProfileUseCase,
) *TicketHandler {
	return &TicketHandler{
		openTicketUC:          openTicketUC,
		claimTicketUC:         claimTicketUC,
		submitTradeUC:         submitTradeUC,
		confirmTradeUC:        confirmTradeUC,
		cancelTradeUC:         cancelTradeUC,
		requestClosureUC:      requestClosureUC,
		confirmFinalizationUC: confirmFinalizationUC,
		revokeFinalizationUC:  revokeFinalizationUC,
		closeTicketUC:         closeTicketUC,
		submitReviewUC:        submitReviewUC,
		getTicketUC:           getTicketUC,
		middlemanProfileUC:    middlemanProfileUC,
		logger:                logger.NewLogger(),
	}
}

type OpenTicketRequest struct {
	GuildID      string                    `json:"guild_id" binding:"required"`
	TicketType   string                    `json:"ticket_type" binding:"required,oneof=trade exchange other"`
	Participants []TicketParticipantInput  `json:"participants" binding:"dive"`
}

type TicketParticipantInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=owner partner trader observer unspecified"`
}

type SubmitTradeRequest struct {
	Items      []string `json:"items" binding:"required,min=1,max=25"`
	PartnerTag string   `json:"partner_tag"`
	PartnerID  *string  `json:"partner_id"`
}

type CloseTicketRequest struct {
	Force bool `json:"force"`
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

func (h *TicketHandler) OpenTicket(c *gin.Context) {
	var req OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for open ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cmd := usecases.OpenTicketCommand{
		GuildID:    req.GuildID,
		OwnerID:    userID,
		TicketType: req.TicketType,
	}
	for _, p := range req.Participants {
		cmd.Participants = append(cmd.Participants, usecases.ParticipantInput{
			UserID: p.UserID,
			Role:   p.Role,
		})
	}

	result, err := h.openTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "ticket opened")
}

func (h *TicketHandler) ClaimTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.claimTicketUC.Execute(c.Request.Context(), usecases.ClaimTicketCommand{
		TicketID:    ticketID,
		MiddlemanID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ticket claimed", result)
}

func (h *TicketHandler) SubmitTrade(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubmitTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for submit trade", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.submitTradeUC.Execute(c.Request.Context(), usecases.SubmitTradeCommand{
		TicketID:   ticketID,
		UserID:     userID,
		Items:      req.Items,
		PartnerTag: req.PartnerTag,
		PartnerID:  req.PartnerID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "trade saved", result)
}

func (h *TicketHandler) ConfirmTrade(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.confirmTradeUC.Execute(c.Request.Context(), usecases.ConfirmTradeCommand{
		TicketID: ticketID,
		UserID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "trade confirmed", result)
}

func (h *TicketHandler) CancelTrade(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.cancelTradeUC.Execute(c.Request.Context(), usecases.CancelTradeCommand{
		TicketID: ticketID,
		UserID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "trade cancelled", result)
}

func (h *TicketHandler) RequestClosure(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.requestClosureUC.Execute(c.Request.Context(), usecases.RequestClosureCommand{
		TicketID:    ticketID,
		RequesterID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "closure requested", result)
}

func (h *TicketHandler) ConfirmFinalization(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.confirmFinalizationUC.Execute(c.Request.Context(), usecases.ConfirmFinalizationCommand{
		TicketID: ticketID,
		UserID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "closure confirmed", result)
}

func (h *TicketHandler) RevokeFinalization(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.revokeFinalizationUC.Execute(c.Request.Context(), usecases.RevokeFinalizationCommand{
		TicketID: ticketID,
		UserID:   userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "closure confirmation revoked", result)
}

func (h *TicketHandler) CloseTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CloseTicketRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid request body for close ticket", "error", err)
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	}

	result, err := h.closeTicketUC.Execute(c.Request.Context(), usecases.CloseTicketCommand{
		TicketID:    ticketID,
		RequesterID: userID,
		Force:       req.Force,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Deferred {
		// Waiting on confirmations is a normal outcome for a close attempt.
		utils.SuccessResponse(c, http.StatusOK, "close deferred pending confirmations", result)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ticket closed", result)
}

func (h *TicketHandler) SubmitReview(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for submit review", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.submitReviewUC.Execute(c.Request.Context(), usecases.SubmitReviewCommand{
		TicketID:   ticketID,
		ReviewerID: userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "review submitted")
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ticket retrieved", result)
}

func (h *TicketHandler) GetMiddlemanProfile(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user id")
		return
	}

	result, err := h.middlemanProfileUC.Execute(c.Request.Context(), usecases.MiddlemanProfileQuery{UserID: uint(id)})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "profile retrieved", result)
}

func ticketIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid ticket id")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authentication")
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authentication context")
		return 0, false
	}
	return id, true
}
