package explorer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	explorerController "github.com/lloydmeta/timestamping/internal/api/controllers/explorer"
	"github.com/lloydmeta/timestamping/internal/api/models/explorer"
	"github.com/lloydmeta/timestamping/internal/infra/server/routing"
)

var txHashPathKey = "tx_hash"

type RoutesHandler struct {
	Controller explorerController.Controller
}

func (h *RoutesHandler) RegisterRoutes(routerGroup *gin.RouterGroup) {
	routerGroup.GET("/transactions/:"+txHashPathKey, h.transaction)
	routerGroup.GET("/blocks/latest", h.latestBlock)
}

// @Summary Get a Transaction's status
// @ID get-transaction
// @Tags explorer
// @Description Says whether a transaction hash has been committed, and where
// @Produce  json
// @Param   tx_hash path string true "Hex encoded transaction hash"
// @Success 200 {object} explorer.Transaction
// @Failure 400 {object} common.Body "Invalid hash"
// @Router /transactions/{tx_hash} [get]
func (h *RoutesHandler) transaction(c *gin.Context) {
	var uri explorer.TxHashUri
	if err := c.ShouldBindUri(&uri); err != nil {
		routing.HandleJsonSerdesErr(c, err)
	} else {
		if tx, err := h.Controller.Transaction(c.Request.Context(), uri.TxHash); err == nil {
			c.JSON(http.StatusOK, tx)
		} else {
			routing.HandleApiErr(c, err)
		}
	}
}

// @Summary Get the latest Block
// @ID get-latest-block
// @Tags explorer
// @Description Returns the most recently committed block header
// @Produce  json
// @Success 200 {object} explorer.Block
// @Failure 404 {object} common.Body "No blocks yet"
// @Router /blocks/latest [get]
func (h *RoutesHandler) latestBlock(c *gin.Context) {
	if b, err := h.Controller.LatestBlock(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, b)
	} else {
		routing.HandleApiErr(c, err)
	}
}
