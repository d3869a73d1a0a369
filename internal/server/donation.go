package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/workflow"
	"github.com/smallbiznis/donara/pkg/db/pagination"
)

const donateRoute = "/api/v1/donate"

// GetDonationForm returns the context bag the page layer needs before any
// submission: where to post, which payment fields to collect, and whether a
// confirmation step is in play.
func (s *Server) GetDonationForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.workflow.FormContext(donateRoute)})
}

// SubmitDonation drives one composite submission through the workflow.
// Validation and purchase failures are structured payloads, not transport
// errors; only binding problems abort.
func (s *Server) SubmitDonation(c *gin.Context) {
	if res, ok := s.limiter.Allow(c.Request.Context(), c.ClientIP()); !ok {
		c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{"code": "too_many_requests", "message": "Too many donation attempts, try again shortly."},
		})
		return
	}

	var sub workflow.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	outcome := s.workflow.Process(c.Request.Context(), &sub)

	switch outcome.State {
	case workflow.StateSucceeded:
		c.JSON(http.StatusOK, gin.H{"data": outcome})
	case workflow.StateAwaitingConfirmation:
		c.JSON(http.StatusAccepted, gin.H{"data": outcome})
	case workflow.StateFailedValidation:
		c.JSON(http.StatusBadRequest, gin.H{"data": outcome})
	case workflow.StateFailedPurchase:
		c.JSON(http.StatusPaymentRequired, gin.H{"data": outcome})
	default:
		c.JSON(http.StatusOK, gin.H{"data": outcome})
	}
}

func (s *Server) ListDonations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Processed string `form:"processed"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var processed *bool
	switch strings.ToLower(strings.TrimSpace(query.Processed)) {
	case "":
	case "true":
		v := true
		processed = &v
	case "false":
		v := false
		processed = &v
	default:
		AbortWithError(c, newValidationError("processed", "invalid_processed", "processed must be true or false"))
		return
	}

	resp, err := s.donationSvc.List(c.Request.Context(), donationdomain.ListDonationRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Processed: processed,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Donations,
		"page_info": resp.PageInfo,
	})
}

// ListDonationPurchases returns the audit trail of gateway responses for a
// donation, oldest first.
func (s *Server) ListDonationPurchases(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusOK, gin.H{"data": []struct{}{}})
		return
	}

	records, err := s.audit.ListByDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) GetDonationByID(c *gin.Context) {
	resp, err := s.donationSvc.GetByID(c.Request.Context(), donationdomain.GetDonationRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
