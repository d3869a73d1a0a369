package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
)

type createDonationTypeOption struct {
	Amount       string `json:"amount"`
	LengthMonths int    `json:"length_months"`
	RepeatCount  int    `json:"repeat_count"`
}

type createDonationTypeRequest struct {
	Name    string                     `json:"name"`
	Options []createDonationTypeOption `json:"options"`
}

func (s *Server) CreateDonationType(c *gin.Context) {
	var req createDonationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	options := make([]catalogdomain.CreateOptionInput, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, catalogdomain.CreateOptionInput{
			Amount:       strings.TrimSpace(opt.Amount),
			LengthMonths: opt.LengthMonths,
			RepeatCount:  opt.RepeatCount,
		})
	}

	resp, err := s.catalogSvc.CreateType(c.Request.Context(), catalogdomain.CreateTypeRequest{
		Name:    strings.TrimSpace(req.Name),
		Options: options,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDonationTypes(c *gin.Context) {
	resp, err := s.catalogSvc.ListTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
