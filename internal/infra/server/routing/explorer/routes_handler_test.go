package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lloydmeta/timestamping/internal/api/models/common"
	"github.com/lloydmeta/timestamping/internal/api/models/explorer"
	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
	"github.com/lloydmeta/timestamping/internal/infra/server/binding/validation"
	"github.com/lloydmeta/timestamping/internal/infra/server/routing"
)

func init() {
	validation.SetUpValidators()
}

func Test_Transaction_Ok(t *testing.T) {
	router, mockController := setupRouter()
	txHash := strings.Repeat("ab", 32)
	resp := performRequest(router, "/v1/transactions/"+txHash)
	assert.EqualValues(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.transactionCalled)
	var tx explorer.Transaction
	if err := json.Unmarshal(resp.Body.Bytes(), &tx); err != nil {
		t.Error(err)
	} else {
		assert.Equal(t, mockApiTransaction, tx)
	}
}

func Test_Transaction_InvalidHash(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, "/v1/transactions/zz")
	assert.EqualValues(t, http.StatusBadRequest, resp.Code)
	assert.EqualValues(t, 0, mockController.transactionCalled)
}

func Test_LatestBlock(t *testing.T) {
	tests := []struct {
		name     string
		override func() (*explorer.Block, *common.ApiError)
		wantCode int
	}{
		{"found", nil, http.StatusOK},
		{
			"no blocks",
			func() (*explorer.Block, *common.ApiError) {
				return nil, &common.ApiError{StatusCode: http.StatusNotFound, Body: common.Body{Message: "none"}}
			},
			http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockController := setupRouter()
			mockController.latestBlockOverride = tt.override
			resp := performRequest(router, "/v1/blocks/latest")
			assert.EqualValues(t, tt.wantCode, resp.Code)
			assert.EqualValues(t, 1, mockController.latestBlockCalled)
		})
	}
}

func setupRouter() (*gin.Engine, *mockExplorerController) {
	engine := gin.Default()
	mockController := mockExplorerController{}
	handler := RoutesHandler{Controller: &mockController}
	handler.RegisterRoutes(routing.NewTopLevelRoutesGroup(nil, engine))
	return engine, &mockController
}

func performRequest(r http.Handler, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var mockApiTransaction = explorer.FromDomainTxInfo(&blockchain.TxInfo{
	TxHash:   blockchain.MockBlock.TxHashes[0],
	Status:   blockchain.Committed,
	Location: &blockchain.TxLocation{Height: 3},
})

var mockApiBlock = explorer.FromDomainBlock(&blockchain.MockBlock)

type mockExplorerController struct {
	transactionCalled   uint
	transactionOverride func() (*explorer.Transaction, *common.ApiError)
	latestBlockCalled   uint
	latestBlockOverride func() (*explorer.Block, *common.ApiError)
}

func (m *mockExplorerController) Transaction(ctx context.Context, txHashHex string) (*explorer.Transaction, *common.ApiError) {
	m.transactionCalled++
	if m.transactionOverride != nil {
		return m.transactionOverride()
	} else {
		return &mockApiTransaction, nil
	}
}

func (m *mockExplorerController) LatestBlock(ctx context.Context) (*explorer.Block, *common.ApiError) {
	m.latestBlockCalled++
	if m.latestBlockOverride != nil {
		return m.latestBlockOverride()
	} else {
		return &mockApiBlock, nil
	}
}
