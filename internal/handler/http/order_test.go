package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Optus-development-team/optsms-backend/internal/handler/http/mocks"
	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/Optus-development-team/optsms-backend/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Checkout(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       *checkoutResp
	}{
		{
			// 200 — order advanced, artifacts returned
			name: "valid_request_return_200",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-1","amount":"120.50"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(&service.CheckoutResult{
					OrderID:    "ord-1",
					State:      models.OrderStateQRSent,
					Reference:  "OP-abc123",
					PaymentURL: "https://pay.example/p/1",
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &checkoutResp{
				OrderID:    "ord-1",
				State:      models.OrderStateQRSent,
				Reference:  "OP-abc123",
				PaymentURL: "https://pay.example/p/1",
			},
		},
		{
			// 200 — amount guard surfaces as a prompt, not an error
			name: "need_amount_return_200",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-1"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(&service.CheckoutResult{
					OrderID:    "ord-1",
					State:      models.OrderStateCart,
					Reference:  "OP-abc123",
					NeedAmount: true,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &checkoutResp{
				OrderID:    "ord-1",
				State:      models.OrderStateCart,
				Reference:  "OP-abc123",
				NeedAmount: true,
			},
		},
		{
			// 400 — malformed payload
			name: "missing_tenant_return_400",
			body: `{"buyerId":"buyer-1"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 503 — rail down, order stays in cart
			name: "rail_unavailable_return_503",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-1","amount":"50"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, models.ErrRailUnavailable).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			// 500 — internal error
			name: "internal_error_return_500",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-1","amount":"50"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t))
			h := handler.Checkout()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got checkoutResp
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_Paid(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			// 200 — trigger processed
			name: "valid_request_return_200",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-1"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BuyerPaid(gomock.Any(), "tenant-1", "buyer-1").
					Return(models.StepResult{Outcome: models.OutcomeApplied}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 404 — buyer has no order
			name: "no_order_return_404",
			body: `{"tenantId":"tenant-1","buyerId":"buyer-2"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BuyerPaid(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.StepResult{}, models.ErrOrderNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 400 — malformed payload
			name: "missing_buyer_return_400",
			body: `{"tenantId":"tenant-1"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BuyerPaid(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/paid", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t))
			h := handler.Paid()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
