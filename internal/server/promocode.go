package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
)

type createPromoCodeRequest struct {
	Code            string `json:"code"`
	DiscountPercent string `json:"discount_percent"`
}

func (s *Server) CreatePromoCode(c *gin.Context) {
	var req createPromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.promoSvc.Create(c.Request.Context(), promodomain.CreatePromoCodeRequest{
		Code:            strings.TrimSpace(req.Code),
		DiscountPercent: strings.TrimSpace(req.DiscountPercent),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPromoCodeByCode(c *gin.Context) {
	resp, err := s.promoSvc.GetByCode(c.Request.Context(), promodomain.GetPromoCodeRequest{
		Code: c.Param("code"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
