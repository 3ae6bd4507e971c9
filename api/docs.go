package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerJSONPath = "/static/swagger.json"

//go:embed docs/swagger.json
var swaggerJSON []byte

// RegisterDocs serves the OpenAPI document and a Swagger UI reading it at /api/docs/.
func RegisterDocs(engine *gin.Engine) {
	engine.GET(swaggerJSONPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swaggerJSON)
	})
	engine.GET("/api/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerJSONPath))))
}
