package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"optibill-backend/internal/auth"
	"optibill-backend/internal/domain"
	"optibill-backend/internal/observability"
	"optibill-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

// OrderService is what the handlers need from the caching layer.
type OrderService interface {
	ListOrdersWithStats(ctx context.Context, scope domain.Scope) ([]domain.Order, service.LookupStats, error)
	GetOrderByBillNoWithStats(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, service.LookupStats, error)
	ListPendingPaymentsWithStats(ctx context.Context, scope domain.Scope) ([]domain.Order, service.LookupStats, error)
	GetPendingPaymentByBillNoWithStats(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, service.LookupStats, error)

	CreateOrder(ctx context.Context, scope domain.Scope, o *domain.Order) (*domain.Order, error)
	UpdateOrder(ctx context.Context, scope domain.Scope, billNo int, patch domain.OrderPatch) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, scope domain.Scope, billNo int, status, paymentType string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, scope domain.Scope, billNo int) error
}

type Server struct {
	service   OrderService
	router    chi.Router
	logger    *zap.Logger
	metrics   observability.Metrics
	validate  *validator.Validate
	jwtSecret string
}

func New(svc OrderService, jwtSecret string, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		service:   svc,
		logger:    logger,
		metrics:   metrics,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(s.jwtSecret, s.logger))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.listOrders)
			r.Post("/", s.createOrder)
			r.Get("/{billNo}", s.getOrder)
			r.Put("/{billNo}", s.updateOrder)
			r.Delete("/{billNo}", s.deleteOrder)
			r.Put("/{billNo}/payment-status", s.updatePaymentStatus)
		})

		r.Route("/pending-payments", func(r chi.Router) {
			r.Get("/", s.listPendingPayments)
			r.Get("/{billNo}", s.getPendingPayment)
		})
	})

	s.router = r
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	orders, st, err := s.service.ListOrdersWithStats(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeTiming(w, st)
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) listPendingPayments(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	orders, st, err := s.service.ListPendingPaymentsWithStats(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeTiming(w, st)
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	billNo, err := billNoParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, st, err := s.service.GetOrderByBillNoWithStats(r.Context(), scope, billNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeTiming(w, st)
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) getPendingPayment(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	billNo, err := billNoParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, st, err := s.service.GetPendingPaymentByBillNoWithStats(r.Context(), scope, billNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeTiming(w, st)
	writeJSON(w, http.StatusOK, order)
}

type createOrderRequest struct {
	BranchID     string              `json:"branchId" validate:"required"`
	SalesmanID   string              `json:"salesmanId"`
	Name         string              `json:"name" validate:"required"`
	Contact      string              `json:"contact" validate:"required"`
	Date         string              `json:"date" validate:"required"`
	Frame        string              `json:"frame"`
	Glass        string              `json:"glass"`
	ContactLens  string              `json:"contactLens"`
	Total        string              `json:"total"`
	Advance      string              `json:"advance"`
	Prescription domain.Prescription `json:"prescription"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}

	id, _ := auth.IdentityFrom(r.Context())
	order := &domain.Order{
		BranchID:     req.BranchID,
		SalesmanID:   req.SalesmanID,
		Name:         req.Name,
		Contact:      req.Contact,
		Date:         req.Date,
		Frame:        req.Frame,
		Glass:        req.Glass,
		ContactLens:  req.ContactLens,
		Total:        req.Total,
		Advance:      req.Advance,
		Prescription: req.Prescription,
	}
	if order.SalesmanID == "" && id != nil {
		order.SalesmanID = id.UserID
	}

	created, err := s.service.CreateOrder(r.Context(), scope, order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "order created",
		"order":   created,
	})
}

type updateOrderRequest struct {
	Name         *string              `json:"name"`
	Contact      *string              `json:"contact"`
	Date         *string              `json:"date"`
	Frame        *string              `json:"frame"`
	Glass        *string              `json:"glass"`
	ContactLens  *string              `json:"contactLens"`
	Total        *string              `json:"total"`
	Advance      *string              `json:"advance"`
	SalesmanID   *string              `json:"salesmanId"`
	Prescription *domain.Prescription `json:"prescription"`
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	billNo, err := billNoParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.service.UpdateOrder(r.Context(), scope, billNo, domain.OrderPatch{
		Name:         req.Name,
		Contact:      req.Contact,
		Date:         req.Date,
		Frame:        req.Frame,
		Glass:        req.Glass,
		ContactLens:  req.ContactLens,
		Total:        req.Total,
		Advance:      req.Advance,
		SalesmanID:   req.SalesmanID,
		Prescription: req.Prescription,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
	PaymentType   string `json:"paymentType" validate:"required"`
}

func (s *Server) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	billNo, err := billNoParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req paymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, domain.NewValidationError("body", err.Error()))
		return
	}

	updated, err := s.service.UpdatePaymentStatus(r.Context(), scope, billNo, req.PaymentStatus, req.PaymentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "payment status updated",
		"order":   updated,
	})
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFrom(r)
	if !ok {
		writeError(w, errMissingIdentity)
		return
	}
	billNo, err := billNoParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.service.DeleteOrder(r.Context(), scope, billNo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "order deleted"})
}

var errMissingIdentity = errors.New("no identity on request")

func scopeFrom(r *http.Request) (domain.Scope, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return nil, false
	}
	return auth.Resolve(*id), true
}

func billNoParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "billNo")
	billNo, err := strconv.Atoi(raw)
	if err != nil || billNo <= 0 {
		return 0, domain.NewValidationError("billNo", "must be a positive number")
	}
	return billNo, nil
}

func decodeJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return domain.NewValidationError("contentType", "must be application/json")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", "bad json")
	}
	return nil
}

func writeTiming(w http.ResponseWriter, st service.LookupStats) {
	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-DB-Time", st.DBMs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errMissingIdentity):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": publicMessage(err, status)})
}

// publicMessage hides store internals from clients; validation and
// conflict details are safe to echo.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusConflict:
		return err.Error()
	case http.StatusNotFound:
		return "order not found"
	case http.StatusForbidden:
		return "branch not allowed"
	case http.StatusUnauthorized:
		return "authentication required"
	default:
		return "internal error"
	}
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}
