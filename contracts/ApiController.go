package contracts

import "github.com/gin-gonic/gin"

type ApiController interface {
	ListCalculatorsAction(c *gin.Context)
	DescribeCalculatorAction(c *gin.Context)
	ExecuteCalculationAction(c *gin.Context)
	SubscribeAction(c *gin.Context)
	GetCellAction(c *gin.Context)
	SetCellAction(c *gin.Context)
}
