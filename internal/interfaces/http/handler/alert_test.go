package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vendora/backend/internal/application/monitoring"
	"github.com/vendora/backend/internal/domain/alert"
	"github.com/vendora/backend/internal/domain/shared"
)

// fakeAlertRepository is a minimal in-memory alert.Repository for
// exercising the HTTP layer
type fakeAlertRepository struct {
	mu     sync.Mutex
	alerts map[uuid.UUID]*alert.Alert
}

func newFakeAlertRepository() *fakeAlertRepository {
	return &fakeAlertRepository{alerts: make(map[uuid.UUID]*alert.Alert)}
}

func (r *fakeAlertRepository) Upsert(ctx context.Context, a *alert.Alert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[a.ID] = a
	return true, nil
}

func (r *fakeAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[a.ID]; !ok {
		return shared.ErrNotFound
	}
	r.alerts[a.ID] = a
	return nil
}

func (r *fakeAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeAlertRepository) FindActive(ctx context.Context, sellerID, productID uuid.UUID, alertType alert.Type) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.SellerID == sellerID && a.ProductID == productID &&
			a.Type == alertType && a.Status == alert.StatusActive {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepository) List(ctx context.Context, sellerID uuid.UUID, filter alert.Filter) (*shared.Paginated[alert.Alert], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []alert.Alert{}
	for _, a := range r.alerts {
		if a.SellerID != sellerID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		items = append(items, *a)
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	result := shared.NewPaginated(items, int64(len(items)), page, pageSize)
	return &result, nil
}

func (r *fakeAlertRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (*alert.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &alert.Counts{ByType: make(map[alert.Type]int64)}
	for _, a := range r.alerts {
		if a.SellerID != sellerID {
			continue
		}
		counts.Total++
		if a.Status != alert.StatusActive {
			continue
		}
		counts.Active++
		counts.ByType[a.Type]++
		switch a.Priority {
		case alert.PriorityCritical:
			counts.Critical++
		case alert.PriorityHigh:
			counts.High++
		}
	}
	return counts, nil
}

func seedAlert(t *testing.T, repo *fakeAlertRepository, sellerID uuid.UUID) *alert.Alert {
	t.Helper()
	a, err := alert.New(sellerID, uuid.New(), nil, alert.ProposedAlert{
		Type:         alert.TypeLowStock,
		Priority:     alert.PriorityHigh,
		CurrentStock: 3,
		Threshold:    10,
	})
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), a)
	require.NoError(t, err)
	return a
}

func newAlertTestContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestAlertHandler_List(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seedAlert(t, repo, sellerID)
	seedAlert(t, repo, sellerID)
	seedAlert(t, repo, uuid.New()) // another seller, must not leak

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts", nil)
	setJWTContext(c, sellerID, uuid.New())

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                       `json:"success"`
		Data    []monitoring.AlertResponse `json:"data"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Meta.Total)
	for _, item := range resp.Data {
		assert.Equal(t, sellerID, item.SellerID)
	}
}

func TestAlertHandler_List_InvalidFilter(t *testing.T) {
	h := NewAlertHandler(monitoring.NewAlertService(newFakeAlertRepository()), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts?status=bogus", nil)
	setJWTContext(c, uuid.New(), uuid.New())

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Counts(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts/counts", nil)
	setJWTContext(c, sellerID, uuid.New())

	h.Counts(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data alert.Counts `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, int64(1), resp.Data.Active)
	assert.Equal(t, int64(1), resp.Data.High)
	assert.Equal(t, int64(1), resp.Data.ByType[alert.TypeLowStock])
}

func TestAlertHandler_GetByID(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts/"+seeded.ID.String(), nil)
	setJWTContext(c, sellerID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data monitoring.AlertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, seeded.ID, resp.Data.ID)
	assert.Equal(t, alert.TypeLowStock, resp.Data.Type)
}

func TestAlertHandler_GetByID_NotFound(t *testing.T) {
	h := NewAlertHandler(monitoring.NewAlertService(newFakeAlertRepository()), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts/"+uuid.NewString(), nil)
	setJWTContext(c, uuid.New(), uuid.New())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlertHandler_GetByID_WrongSeller(t *testing.T) {
	repo := newFakeAlertRepository()
	seeded := seedAlert(t, repo, uuid.New())

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts/"+seeded.ID.String(), nil)
	setJWTContext(c, uuid.New(), uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAlertHandler_GetByID_InvalidID(t *testing.T) {
	h := NewAlertHandler(monitoring.NewAlertService(newFakeAlertRepository()), nil)

	c, w := newAlertTestContext(t, http.MethodGet, "/api/v1/alerts/not-a-uuid", nil)
	setJWTContext(c, uuid.New(), uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Acknowledge(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	userID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/acknowledge", nil)
	setJWTContext(c, sellerID, userID)
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.Acknowledge(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data monitoring.AlertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, alert.StatusAcknowledged, resp.Data.Status)
	require.NotNil(t, resp.Data.AcknowledgedBy)
	assert.Equal(t, userID, *resp.Data.AcknowledgedBy)
}

func TestAlertHandler_Acknowledge_Twice(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	for i, want := range []int{http.StatusOK, http.StatusUnprocessableEntity} {
		c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/acknowledge", nil)
		setJWTContext(c, sellerID, uuid.New())
		c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

		h.Acknowledge(c)

		assert.Equal(t, want, w.Code, "request %d", i+1)
	}
}

func TestAlertHandler_Resolve(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/resolve",
		monitoring.ResolveAlertRequest{ActionTaken: "Restocked manually from backup warehouse"})
	setJWTContext(c, sellerID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.Resolve(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data monitoring.AlertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, alert.StatusResolved, resp.Data.Status)
	assert.Equal(t, "Restocked manually from backup warehouse", resp.Data.ActionTaken)
	assert.NotNil(t, resp.Data.ResolvedAt)
}

func TestAlertHandler_Resolve_MissingAction(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/resolve",
		map[string]string{})
	setJWTContext(c, sellerID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.Resolve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Dismiss(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)

	h := NewAlertHandler(monitoring.NewAlertService(repo), nil)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/dismiss", nil)
	setJWTContext(c, sellerID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.Dismiss(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data monitoring.AlertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, alert.StatusDismissed, resp.Data.Status)
}

func TestAlertHandler_Restock_AlreadyTriggered_NoContent(t *testing.T) {
	repo := newFakeAlertRepository()
	sellerID := uuid.New()
	seeded := seedAlert(t, repo, sellerID)
	require.NoError(t, seeded.MarkRestockTriggered(nil))

	restockService := monitoring.NewRestockService(repo, nil, nil, 50, zaptest.NewLogger(t))
	h := NewAlertHandler(monitoring.NewAlertService(repo), restockService)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+seeded.ID.String()+"/restock", nil)
	setJWTContext(c, sellerID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: seeded.ID.String()}}

	h.Restock(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestAlertHandler_Restock_NotFound(t *testing.T) {
	repo := newFakeAlertRepository()
	restockService := monitoring.NewRestockService(repo, nil, nil, 50, nil)
	h := NewAlertHandler(monitoring.NewAlertService(repo), restockService)

	c, w := newAlertTestContext(t, http.MethodPost, "/api/v1/alerts/"+uuid.NewString()+"/restock", nil)
	setJWTContext(c, uuid.New(), uuid.New())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.Restock(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
