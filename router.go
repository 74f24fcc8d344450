package main

import (
	"calcSheets/contracts"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ApiVersion = "v1"

const executePath = "execute"
const subscribePath = "subscribe"

func SetupRouter(controller contracts.ApiController) *gin.Engine {
	router := gin.New()

	apiRouterGroup := router.Group("/api/" + ApiVersion)
	apiRouterGroup.GET("/calculators", controller.ListCalculatorsAction)
	apiRouterGroup.GET("/calculators/:calculator_name", controller.DescribeCalculatorAction)
	apiRouterGroup.POST("/calculators/:calculator_name/"+executePath, controller.ExecuteCalculationAction)
	apiRouterGroup.POST("/calculators/:calculator_name/"+subscribePath, controller.SubscribeAction)

	apiRouterGroup.GET("/calculators/:calculator_name/cells/:cell_id", controller.GetCellAction)
	apiRouterGroup.POST("/calculators/:calculator_name/cells/:cell_id", controller.SetCellAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}
