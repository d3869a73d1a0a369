package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
)

func (s *Server) GetDonorByID(c *gin.Context) {
	resp, err := s.donorSvc.GetByID(c.Request.Context(), donordomain.GetDonorRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
