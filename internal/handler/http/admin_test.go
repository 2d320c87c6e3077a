package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Optus-development-team/optsms-backend/internal/handler/http/mocks"
	"github.com/Optus-development-team/optsms-backend/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestAdminHandler_SubmitSecondFactor(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockSecondFactorService
		wantStatusCode int
	}{
		{
			// 200 — code accepted, verification resumes
			name: "valid_request_return_200",
			body: `{"tenantId":"tenant-1","code":"482913"}`,
			setup: func(t *testing.T) *mocks.MockSecondFactorService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockSecondFactorService(ctrl)
				svcMock.EXPECT().SubmitSecondFactor(gomock.Any(), "tenant-1", "482913").Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 404 — nothing awaiting a code
			name: "no_pending_order_return_404",
			body: `{"tenantId":"tenant-1","code":"482913"}`,
			setup: func(t *testing.T) *mocks.MockSecondFactorService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockSecondFactorService(ctrl)
				svcMock.EXPECT().SubmitSecondFactor(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.ErrNoPendingCode).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 422 — bank rejected the code
			name: "rejected_code_return_422",
			body: `{"tenantId":"tenant-1","code":"000000"}`,
			setup: func(t *testing.T) *mocks.MockSecondFactorService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockSecondFactorService(ctrl)
				svcMock.EXPECT().SubmitSecondFactor(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.ErrCodeRejected).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			// 503 — rail unavailable
			name: "rail_unavailable_return_503",
			body: `{"tenantId":"tenant-1","code":"482913"}`,
			setup: func(t *testing.T) *mocks.MockSecondFactorService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockSecondFactorService(ctrl)
				svcMock.EXPECT().SubmitSecondFactor(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.ErrRailUnavailable).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			// 400 — malformed payload
			name: "missing_code_return_400",
			body: `{"tenantId":"tenant-1"}`,
			setup: func(t *testing.T) *mocks.MockSecondFactorService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockSecondFactorService(ctrl)
				svcMock.EXPECT().SubmitSecondFactor(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/second-factor", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewAdminHandler(tt.setup(t))
			h := handler.SubmitSecondFactor()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
