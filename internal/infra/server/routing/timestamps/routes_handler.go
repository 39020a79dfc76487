package timestamps

import (
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"

	timestampController "github.com/lloydmeta/timestamping/internal/api/controllers/timestamp"
	"github.com/lloydmeta/timestamping/internal/infra/server/routing"
)

var subPath = "timestamp"

var keyPathKey = "key"

// allKey shares the key path segment; httprouter does not allow a static segment next to a
// wildcard one
var allKey = "all"

// maxPayloadBytes bounds submitted transactions; a signed CreateTimestamp is a few hundred bytes
var maxPayloadBytes int64 = 64 * 1024

type RoutesHandler struct {
	Controller timestampController.Controller
}

func (h *RoutesHandler) RegisterRoutes(routerGroup *gin.RouterGroup) {
	subGroup := routerGroup.Group(subPath)
	subGroup.POST("", h.submit)
	subGroup.GET("/:"+keyPathKey, h.getOrList)
}

// @Summary Submit a CreateTimestamp transaction
// @ID submit-timestamp
// @Tags timestamps
// @Description Hands a signed CreateTimestamp transaction to the node for ordering. A 200 means the
// @Description transaction was accepted, not that it has been committed.
// @Accept  json
// @Produce  json
// @Param   transaction body timestamp.SignedTransaction true "The signed transaction"
// @Success 200 {object} timestamp.TxAccepted
// @Failure 400 {object} common.Body "Empty or malformed request"
// @Failure 500 {object} common.Body "The node could not accept the transaction"
// @Router /timestamp [post]
func (h *RoutesHandler) submit(c *gin.Context) {
	payload, err := ioutil.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		routing.HandleJsonSerdesErr(c, err)
	} else {
		if accepted, err := h.Controller.Submit(c.Request.Context(), payload); err == nil {
			c.JSON(http.StatusOK, accepted)
		} else {
			routing.HandleApiErr(c, err)
		}
	}
}

func (h *RoutesHandler) getOrList(c *gin.Context) {
	if c.Param(keyPathKey) == allKey {
		h.list(c)
	} else {
		h.get(c)
	}
}

// @Summary Get a Timestamp
// @ID get-timestamp
// @Tags timestamps
// @Description Retrieves the record for a file hash
// @Produce  json
// @Param   key path string true "Hex encoded file hash"
// @Success 200 {object} timestamp.Timestamp
// @Failure 400 {object} common.Body "Invalid key"
// @Failure 404 {object} common.Body "Timestamp not found"
// @Router /timestamp/{key} [get]
func (h *RoutesHandler) get(c *gin.Context) {
	if t, err := h.Controller.Get(c.Request.Context(), c.Param(keyPathKey)); err == nil {
		c.JSON(http.StatusOK, t)
	} else {
		routing.HandleApiErr(c, err)
	}
}

// @Summary List Timestamps
// @ID list-timestamps
// @Tags timestamps
// @Description Lists every record in key order
// @Produce  json
// @Success 200 {array} timestamp.Timestamp
// @Router /timestamp/all [get]
func (h *RoutesHandler) list(c *gin.Context) {
	if ts, err := h.Controller.List(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, ts)
	} else {
		routing.HandleApiErr(c, err)
	}
}
